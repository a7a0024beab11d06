package jobs

import (
	"context"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
)

const PaymentPollJobName = "payment_poll_job"

type PaymentPoller interface {
	Handle(ctx context.Context, cmd commands.PollPendingPaymentsCommand) (commands.PollSummary, error)
}

// PaymentPollJob is the fallback for callbacks that never arrive.
type PaymentPollJob struct {
	*scheduledJob
	handler PaymentPoller
	cmd     commands.PollPendingPaymentsCommand
}

func NewPaymentPollJob(
	schedule string,
	handler PaymentPoller,
	cmd commands.PollPendingPaymentsCommand,
	metrics Metrics,
	logger *zap.Logger,
) *PaymentPollJob {
	j := &PaymentPollJob{handler: handler, cmd: cmd}
	j.scheduledJob = newScheduledJob(PaymentPollJobName, schedule, j.run, metrics, logger)
	return j
}

func (j *PaymentPollJob) run(ctx context.Context) error {
	summary, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		return err
	}
	if summary.Checked > 0 {
		j.logger.Info("pending payments polled",
			zap.Int("checked", summary.Checked),
			zap.Int("settled", summary.Settled),
			zap.Int("expired", summary.Expired))
	}
	return nil
}
