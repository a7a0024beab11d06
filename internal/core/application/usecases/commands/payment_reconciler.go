package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/core/ports"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// PrintDispatcher is the auto-print hook run after a payment is confirmed.
type PrintDispatcher interface {
	Handle(ctx context.Context, cmd DispatchPrintCommand) (DispatchPrintResult, error)
}

// paymentReconciler applies gateway outcomes under the order lock. It is
// shared by the callback, the status query, the poller and synchronous
// settlement at initiation.
type paymentReconciler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	dispatcher PrintDispatcher
	logger     *zap.Logger
	clock      Clock
}

// apply reconciles outcome in its own transaction. A handle that matches no
// payment is not an error; the returned payment is nil in that case.
func (r paymentReconciler) apply(ctx context.Context, outcome payment.Outcome) (*payment.Payment, payment.Reconciliation, error) {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, payment.Reconciliation{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, o, err := lockPayment(ctx, uow, outcome.Handle)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, payment.Reconciliation{}, nil
	}
	if err != nil {
		return nil, payment.Reconciliation{}, err
	}

	rec, err := reconcileLocked(ctx, uow, p, o, outcome, r.clock())
	if err != nil {
		return nil, payment.Reconciliation{}, err
	}
	if !rec.Applied {
		return p, rec, nil
	}

	if err = commitAndPublish(ctx, uow, r.publisher); err != nil {
		return nil, payment.Reconciliation{}, err
	}

	r.logger.Info("payment reconciled",
		zap.String("handle", p.Handle()),
		zap.Stringer("order_number", o.Number()),
		zap.Stringer("result", rec.Result),
	)

	r.runEffects(ctx, o, rec)
	return p, rec, nil
}

// runEffects runs post-commit side effects. A failed auto-print leaves the
// payment recorded; the dispatch can be retried by an operator.
func (r paymentReconciler) runEffects(ctx context.Context, o *order.Order, rec payment.Reconciliation) {
	if !rec.Has(payment.EffectDispatchPrint) || r.dispatcher == nil {
		return
	}

	cmd, err := NewDispatchPrintCommand(o.ID())
	if err != nil {
		r.logger.Error("auto print skipped", zap.Error(err))
		return
	}
	if _, err = r.dispatcher.Handle(ctx, cmd); err != nil {
		r.logger.Warn("auto print failed",
			zap.Stringer("order_number", o.Number()),
			zap.Error(err),
		)
	}
}

// lockPayment locks the owning order, then the payment.
func lockPayment(ctx context.Context, uow UoW, handle string) (*payment.Payment, *order.Order, error) {
	peek, err := uow.PaymentRepository().GetByHandle(ctx, handle)
	if err != nil {
		return nil, nil, err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, peek.OrderID())
	if err != nil {
		return nil, nil, err
	}

	p, err := uow.PaymentRepository().GetByHandleForUpdate(ctx, handle)
	if err != nil {
		return nil, nil, err
	}
	return p, o, nil
}

func reconcileLocked(
	ctx context.Context,
	uow UoW,
	p *payment.Payment,
	o *order.Order,
	outcome payment.Outcome,
	now time.Time,
) (payment.Reconciliation, error) {
	rec, err := payment.Reconcile(p, o, outcome, now)
	if err != nil {
		return payment.Reconciliation{}, err
	}
	if !rec.Applied {
		return rec, nil
	}

	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return payment.Reconciliation{}, err
	}
	if rec.Result == payment.ResultSucceeded {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return payment.Reconciliation{}, err
		}
	}
	return rec, nil
}
