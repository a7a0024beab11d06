package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/core/ports"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// PollSummary counts what one polling round did.
type PollSummary struct {
	Checked int
	Settled int
	Expired int
}

type PollPendingPaymentsCommandHandler struct {
	gateway    ports.PaymentGateway
	reconciler paymentReconciler
}

func NewPollPendingPaymentsCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.EventPublisher,
	dispatcher PrintDispatcher,
	logger *zap.Logger,
) PollPendingPaymentsCommandHandler {
	return PollPendingPaymentsCommandHandler{
		gateway: gateway,
		reconciler: paymentReconciler{
			uowFactory: uowFactory,
			publisher:  publisher,
			dispatcher: dispatcher,
			logger:     logger.With(zap.String("component", "payment_poller")),
			clock:      time.Now,
		},
	}
}

// Handle polls each stale pending payment once. A failure on one payment is
// logged and does not stop the round. Only rounds where the gateway answered
// "pending" count toward expiry; a query error leaves the payment untouched.
func (h PollPendingPaymentsCommandHandler) Handle(ctx context.Context, cmd PollPendingPaymentsCommand) (PollSummary, error) {
	if err := cmd.Validate(); err != nil {
		return PollSummary{}, err
	}

	cutoff := h.reconciler.clock().Add(-cmd.After())
	pending, err := h.reconciler.uowFactory.Create().PaymentRepository().ListPendingCreatedBefore(ctx, cutoff, cmd.BatchSize())
	if err != nil {
		return PollSummary{}, err
	}

	var summary PollSummary
	for _, p := range pending {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		summary.Checked++

		outcome, queryErr := h.gateway.QueryStatus(ctx, p.Handle())
		if queryErr != nil {
			h.reconciler.logger.Warn("payment status query failed", zap.String("handle", p.Handle()), zap.Error(queryErr))
			continue
		}
		if outcome.Result != payment.ResultPending {
			outcome.Handle = p.Handle()
			if _, rec, applyErr := h.reconciler.apply(ctx, outcome); applyErr != nil {
				h.reconciler.logger.Error("poll reconciliation failed", zap.String("handle", p.Handle()), zap.Error(applyErr))
			} else if rec.Applied {
				summary.Settled++
			}
			continue
		}
		expired, attemptErr := h.recordAttempt(ctx, p.Handle(), cmd.MaxAttempts())
		if attemptErr != nil {
			h.reconciler.logger.Error("recording poll attempt failed", zap.String("handle", p.Handle()), zap.Error(attemptErr))
			continue
		}
		if expired {
			summary.Expired++
		}
	}

	return summary, nil
}

// recordAttempt counts an inconclusive poll and fails the payment once the
// attempts are exhausted.
func (h PollPendingPaymentsCommandHandler) recordAttempt(ctx context.Context, handle string, maxAttempts int) (bool, error) {
	uow := h.reconciler.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, _, err := lockPayment(ctx, uow, handle)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if p.Status() != payment.Pending {
		return false, nil
	}

	expired := false
	if p.RecordPollAttempt() >= maxAttempts {
		expired = p.Expire(h.reconciler.clock())
	}

	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	if expired {
		h.reconciler.logger.Info("payment confirmation timed out", zap.String("handle", handle))
	}
	return expired, nil
}
