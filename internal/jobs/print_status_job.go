package jobs

import (
	"context"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
)

const PrintStatusJobName = "print_status_job"

type PrintCompleter interface {
	Handle(ctx context.Context, cmd commands.CompletePrintJobsCommand) (int, error)
}

// PrintStatusJob completes spooler jobs once they leave the printer queue.
type PrintStatusJob struct {
	*scheduledJob
	handler PrintCompleter
	cmd     commands.CompletePrintJobsCommand
}

func NewPrintStatusJob(
	schedule string,
	handler PrintCompleter,
	cmd commands.CompletePrintJobsCommand,
	metrics Metrics,
	logger *zap.Logger,
) *PrintStatusJob {
	j := &PrintStatusJob{handler: handler, cmd: cmd}
	j.scheduledJob = newScheduledJob(PrintStatusJobName, schedule, j.run, metrics, logger)
	return j
}

func (j *PrintStatusJob) run(ctx context.Context) error {
	completed, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		return err
	}
	if completed > 0 {
		j.logger.Info("print jobs completed", zap.Int("count", completed))
	}
	return nil
}
