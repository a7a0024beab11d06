package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// DispatchPrintResult lists the jobs recorded for the order.
type DispatchPrintResult struct {
	Jobs        []*printjob.PrintJob
	OrderStatus order.Status
}

// DispatchPrintCommandHandler submits a paid order's documents to the print
// backend while holding the order lock, so concurrent dispatches of the same
// order cannot both submit.
//
// An instant backend completes the job on submission and the order moves
// straight to printed. A spooler leaves the job printing and the order in
// printing until CompletePrintJobs observes the spooler has finished.
//
// A backend failure rolls back the whole dispatch: no job is recorded and
// the order status is unchanged.
type DispatchPrintCommandHandler struct {
	uowFactory UoWFactory
	backend    ports.PrintBackend
	documents  ports.DocumentStore
	publisher  ports.EventPublisher
	logger     *zap.Logger
	clock      Clock
}

func NewDispatchPrintCommandHandler(
	uowFactory UoWFactory,
	backend ports.PrintBackend,
	documents ports.DocumentStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) DispatchPrintCommandHandler {
	return DispatchPrintCommandHandler{
		uowFactory: uowFactory,
		backend:    backend,
		documents:  documents,
		publisher:  publisher,
		logger:     logger.With(zap.String("component", "print_dispatcher")),
		clock:      time.Now,
	}
}

func (h DispatchPrintCommandHandler) Handle(ctx context.Context, cmd DispatchPrintCommand) (DispatchPrintResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchPrintResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DispatchPrintResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return DispatchPrintResult{}, err
	}
	if err = o.CanDispatchPrint(); err != nil {
		return DispatchPrintResult{}, err
	}

	paths, err := h.resolveDocuments(ctx, o)
	if err != nil {
		return DispatchPrintResult{}, err
	}

	now := h.clock()
	jobs := make([]*printjob.PrintJob, 0, len(paths))
	for _, item := range o.Items() {
		job, submitErr := h.submit(ctx, o, item, paths[item.ID()], now)
		if submitErr != nil {
			return DispatchPrintResult{}, submitErr
		}
		if err = uow.PrintJobRepository().Add(ctx, job); err != nil {
			return DispatchPrintResult{}, err
		}
		jobs = append(jobs, job)
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return DispatchPrintResult{}, err
	}
	if err = commitAndPublish(ctx, uow, h.publisher); err != nil {
		return DispatchPrintResult{}, err
	}

	h.logger.Info("order sent to printer",
		zap.Stringer("order_number", o.Number()),
		zap.Int("jobs", len(jobs)),
		zap.Stringer("status", o.Status()),
	)
	return DispatchPrintResult{Jobs: jobs, OrderStatus: o.Status()}, nil
}

// resolveDocuments checks every item before anything is submitted.
func (h DispatchPrintCommandHandler) resolveDocuments(ctx context.Context, o *order.Order) (map[kernel.UUID]string, error) {
	paths := make(map[kernel.UUID]string, len(o.Items()))
	for _, item := range o.Items() {
		doc := item.Artifacts().Document
		if doc == nil {
			return nil, fmt.Errorf("%w: item %s", printjob.ErrNoPrintableArtifact, item.ID())
		}

		ok, err := h.documents.Exists(ctx, *doc)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s not found", printjob.ErrNoPrintableArtifact, *doc)
		}

		path, err := h.documents.Path(*doc)
		if err != nil {
			return nil, err
		}
		paths[item.ID()] = path
	}
	return paths, nil
}

func (h DispatchPrintCommandHandler) submit(
	ctx context.Context,
	o *order.Order,
	item *order.Item,
	path string,
	now time.Time,
) (*printjob.PrintJob, error) {
	submission, err := h.backend.Submit(ctx, path, item.Quantity())
	if err != nil {
		h.logger.Error("print submission failed",
			zap.Stringer("order_number", o.Number()),
			zap.String("backend", h.backend.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	job, err := printjob.NewPrintJob(kernel.NewUUID(), o.ID(), item.ID(), submission, item.Quantity(), now)
	if err != nil {
		return nil, err
	}

	if job.Status() == printjob.Completed {
		err = o.MarkItemPrinted(item.ID(), now)
	} else {
		err = o.MarkItemPrinting(item.ID(), now)
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}
