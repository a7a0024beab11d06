package ports

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
)

type PrintJobRepository interface {
	Add(ctx context.Context, job *printjob.PrintJob) error
	Update(ctx context.Context, job *printjob.PrintJob) error

	// ListByOrder returns every job recorded for the order's items.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*printjob.PrintJob, error)

	// ListPrinting returns jobs an asynchronous spooler has not finished yet.
	ListPrinting(ctx context.Context, limit int) ([]*printjob.PrintJob, error)
}
