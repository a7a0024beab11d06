package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// ReconcileResult reports what a callback changed. Applied is false for
// unknown handles, duplicates and pending outcomes.
type ReconcileResult struct {
	Applied bool
	Result  payment.Result
}

// ReconcilePaymentCommandHandler applies gateway callbacks. Delivering the
// same callback any number of times has the effect of delivering it once.
type ReconcilePaymentCommandHandler struct {
	reconciler paymentReconciler
}

func NewReconcilePaymentCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	dispatcher PrintDispatcher,
	logger *zap.Logger,
) ReconcilePaymentCommandHandler {
	return ReconcilePaymentCommandHandler{
		reconciler: paymentReconciler{
			uowFactory: uowFactory,
			publisher:  publisher,
			dispatcher: dispatcher,
			logger:     logger.With(zap.String("component", "payment")),
			clock:      time.Now,
		},
	}
}

func (h ReconcilePaymentCommandHandler) Handle(ctx context.Context, cmd ReconcilePaymentCommand) (ReconcileResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileResult{}, err
	}

	p, rec, err := h.reconciler.apply(ctx, cmd.Outcome())
	if err != nil {
		return ReconcileResult{}, err
	}
	if p == nil {
		h.reconciler.logger.Warn("callback for unknown payment", zap.String("handle", cmd.Outcome().Handle))
	}
	return ReconcileResult{Applied: rec.Applied, Result: rec.Result}, nil
}
