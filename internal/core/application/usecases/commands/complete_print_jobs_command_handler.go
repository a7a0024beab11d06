package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// CompletePrintJobsCommandHandler is the print completed signal for spooler
// backends. Jobs submitted to another backend are left alone.
type CompletePrintJobsCommandHandler struct {
	uowFactory UoWFactory
	backend    ports.PrintBackend
	publisher  ports.EventPublisher
	logger     *zap.Logger
	clock      Clock
}

func NewCompletePrintJobsCommandHandler(
	uowFactory UoWFactory,
	backend ports.PrintBackend,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) CompletePrintJobsCommandHandler {
	return CompletePrintJobsCommandHandler{
		uowFactory: uowFactory,
		backend:    backend,
		publisher:  publisher,
		logger:     logger.With(zap.String("component", "print_completion")),
		clock:      time.Now,
	}
}

// Handle returns the number of jobs completed.
func (h CompletePrintJobsCommandHandler) Handle(ctx context.Context, cmd CompletePrintJobsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	jobs, err := h.uowFactory.Create().PrintJobRepository().ListPrinting(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, job := range jobs {
		if job.Backend() != h.backend.Name() {
			continue
		}

		state, stateErr := h.backend.JobState(ctx, job.Handle())
		if stateErr != nil {
			h.logger.Warn("spooler query failed", zap.String("job", job.Handle()), zap.Error(stateErr))
			continue
		}
		if state != printjob.BackendDone {
			continue
		}

		if err = h.complete(ctx, job); err != nil {
			h.logger.Error("completing print job failed", zap.String("job", job.Handle()), zap.Error(err))
			continue
		}
		completed++
	}
	return completed, nil
}

func (h CompletePrintJobsCommandHandler) complete(ctx context.Context, job *printjob.PrintJob) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, job.OrderID())
	if err != nil {
		return err
	}

	now := h.clock()
	if !job.Complete(now) {
		return nil
	}
	if err = o.MarkItemPrinted(job.OrderItemID(), now); err != nil {
		return err
	}

	if err = uow.PrintJobRepository().Update(ctx, job); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = commitAndPublish(ctx, uow, h.publisher); err != nil {
		return err
	}

	h.logger.Info("print job completed",
		zap.String("job", job.Handle()),
		zap.Stringer("order_number", o.Number()),
		zap.Stringer("status", o.Status()),
	)
	return nil
}
