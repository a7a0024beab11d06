package printer

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const CupsBackendName = "cups"

// jobRejected is the client-facing message for any failed submission.
// The lp output stays in the cause and the logs.
const jobRejected = "print job was rejected"

// Runner executes an external command and returns its standard output.
// A non-zero exit is returned as an error whose cause carries the standard
// error text.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return stdout.Bytes(), errs.NewUpstreamFailureErrorWithCause(name, "command failed", err)
	}
	return stdout.Bytes(), nil
}

type CupsOption func(*CupsBackend)

func WithRunner(run Runner) CupsOption {
	return func(b *CupsBackend) { b.run = run }
}

// WithDuplex toggles double-sided printing. Cards print duplex by default.
func WithDuplex(on bool) CupsOption {
	return func(b *CupsBackend) { b.duplex = on }
}

// CupsBackend queues documents on a named CUPS destination. Jobs finish
// asynchronously; JobState reports a job done once it leaves the queue.
type CupsBackend struct {
	printer string
	duplex  bool
	run     Runner
	log     *zap.Logger
}

func NewCupsBackend(printerName string, log *zap.Logger, opts ...CupsOption) (*CupsBackend, error) {
	if strings.TrimSpace(printerName) == "" {
		return nil, errs.NewValueIsRequiredError("printer name")
	}
	if log == nil {
		log = zap.NewNop()
	}
	b := &CupsBackend{
		printer: printerName,
		duplex:  true,
		run:     ExecRunner,
		log:     log.With(zap.String("component", "printer_cups"), zap.String("printer", printerName)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *CupsBackend) Name() string { return CupsBackendName }

func (b *CupsBackend) Submit(ctx context.Context, documentPath string, copies int) (printjob.Submission, error) {
	if strings.TrimSpace(documentPath) == "" {
		return printjob.Submission{}, errs.NewValueIsRequiredError("document path")
	}
	if copies <= 0 {
		copies = 1
	}

	args := []string{"-d", b.printer, "-n", strconv.Itoa(copies)}
	if b.duplex {
		args = append(args, "-o", "DualSidePrinting=Duplex")
	}
	args = append(args, documentPath)

	out, err := b.run(ctx, "lp", args...)
	if err != nil {
		b.log.Error("lp failed", zap.String("document", documentPath), zap.Error(err))
		return printjob.Submission{}, errs.NewUpstreamFailureErrorWithCause("printer", jobRejected, err)
	}

	handle := parseRequestID(out)
	if handle == "" {
		b.log.Error("lp returned no request id", zap.String("document", documentPath), zap.ByteString("output", out))
		return printjob.Submission{}, errs.NewUpstreamFailureErrorWithCause("printer", jobRejected,
			fmt.Errorf("no request id in lp output: %q", strings.TrimSpace(string(out))))
	}

	b.log.Info("document queued", zap.String("document", documentPath), zap.Int("copies", copies), zap.String("job", handle))
	return printjob.Submission{Handle: handle, Backend: CupsBackendName}, nil
}

func (b *CupsBackend) JobState(ctx context.Context, handle string) (printjob.BackendState, error) {
	out, err := b.run(ctx, "lpstat", "-o", b.printer)
	if err != nil {
		return printjob.BackendUnknown, err
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 && fields[0] == handle {
			return printjob.BackendQueued, nil
		}
	}
	return printjob.BackendDone, nil
}

// parseRequestID extracts the job id from lp output such as
// "request id is LXM-Card-Printer-15 (1 file(s))".
func parseRequestID(out []byte) string {
	const marker = "request id is "
	s := string(out)
	i := strings.Index(s, marker)
	if i < 0 {
		return ""
	}
	fields := strings.Fields(s[i+len(marker):])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
