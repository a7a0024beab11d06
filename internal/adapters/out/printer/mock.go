// Package printer holds the print backends: an instant mock and a CUPS
// spooler driven through the lp and lpstat commands.
package printer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const MockBackendName = "mock"

// MockBackend accepts every document and reports it printed at once.
type MockBackend struct {
	now func() time.Time
	log *zap.Logger
}

func NewMockBackend(log *zap.Logger) *MockBackend {
	if log == nil {
		log = zap.NewNop()
	}
	return &MockBackend{now: time.Now, log: log.With(zap.String("component", "printer_mock"))}
}

func (b *MockBackend) Name() string { return MockBackendName }

func (b *MockBackend) Submit(ctx context.Context, documentPath string, copies int) (printjob.Submission, error) {
	if err := ctx.Err(); err != nil {
		return printjob.Submission{}, errs.NewUpstreamFailureErrorWithCause(MockBackendName, "submission aborted", err)
	}
	if strings.TrimSpace(documentPath) == "" {
		return printjob.Submission{}, errs.NewValueIsRequiredError("document path")
	}

	handle := fmt.Sprintf("MOCK-%s-%s", b.now().Format("150405"), strings.ToUpper(uuid.NewString()[:6]))
	b.log.Info("mock print", zap.String("document", documentPath), zap.Int("copies", copies), zap.String("job", handle))
	return printjob.Submission{Handle: handle, Backend: MockBackendName, Instant: true}, nil
}

func (b *MockBackend) JobState(context.Context, string) (printjob.BackendState, error) {
	return printjob.BackendDone, nil
}
