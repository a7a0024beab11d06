package ports

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
)

// PrintBackend submits printable documents. The instant and spooler
// implementations are chosen at construction time.
type PrintBackend interface {
	// Name identifies the backend on recorded jobs.
	Name() string

	// Submit hands documentPath to the printer. On error nothing was queued.
	Submit(ctx context.Context, documentPath string, copies int) (printjob.Submission, error)

	// JobState reports whether a previously submitted handle is still queued.
	JobState(ctx context.Context, handle string) (printjob.BackendState, error)
}
