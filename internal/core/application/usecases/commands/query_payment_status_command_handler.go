package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// PaymentStatusResult is the customer facing state of one payment attempt.
type PaymentStatusResult struct {
	Handle        string
	Status        payment.Status
	Receipt       *string
	FailureReason *string
}

// QueryPaymentStatusCommandHandler resolves a payment's status, polling the
// gateway only while it is still pending.
type QueryPaymentStatusCommandHandler struct {
	gateway    ports.PaymentGateway
	reconciler paymentReconciler
}

func NewQueryPaymentStatusCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.EventPublisher,
	dispatcher PrintDispatcher,
	logger *zap.Logger,
) QueryPaymentStatusCommandHandler {
	return QueryPaymentStatusCommandHandler{
		gateway: gateway,
		reconciler: paymentReconciler{
			uowFactory: uowFactory,
			publisher:  publisher,
			dispatcher: dispatcher,
			logger:     logger.With(zap.String("component", "payment")),
			clock:      time.Now,
		},
	}
}

func (h QueryPaymentStatusCommandHandler) Handle(ctx context.Context, cmd QueryPaymentStatusCommand) (PaymentStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return PaymentStatusResult{}, err
	}

	p, err := h.reconciler.uowFactory.Create().PaymentRepository().GetByHandle(ctx, cmd.Handle())
	if err != nil {
		return PaymentStatusResult{}, err
	}
	if p.Status().IsTerminal() {
		return statusOf(p), nil
	}

	outcome, err := h.gateway.QueryStatus(ctx, p.Handle())
	if err != nil {
		h.reconciler.logger.Error("payment status query failed",
			zap.String("handle", p.Handle()),
			zap.Error(err),
		)
		return PaymentStatusResult{}, err
	}
	if outcome.Result == payment.ResultPending {
		return statusOf(p), nil
	}

	outcome.Handle = p.Handle()
	settled, _, err := h.reconciler.apply(ctx, outcome)
	if err != nil {
		return PaymentStatusResult{}, err
	}
	if settled == nil {
		return statusOf(p), nil
	}
	return statusOf(settled), nil
}

func statusOf(p *payment.Payment) PaymentStatusResult {
	return PaymentStatusResult{
		Handle:        p.Handle(),
		Status:        p.Status(),
		Receipt:       p.Receipt(),
		FailureReason: p.FailureReason(),
	}
}
