package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// InitiatePaymentResult is returned to the checkout page. Receipt is set
// when the gateway settled the push synchronously.
type InitiatePaymentResult struct {
	CheckoutRequestID string
	MerchantRequestID string
	Status            payment.Status
	Receipt           *string
	OrderStatus       order.Status
}

// InitiatePaymentCommandHandler starts a push payment.
//
// The gateway call runs outside any transaction: the order is checked, the
// push is sent, then the payment row is inserted under the order lock after
// re-checking that no other attempt completed meanwhile. A failed push
// persists nothing.
type InitiatePaymentCommandHandler struct {
	gateway    ports.PaymentGateway
	reconciler paymentReconciler
}

func NewInitiatePaymentCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.EventPublisher,
	dispatcher PrintDispatcher,
	logger *zap.Logger,
) InitiatePaymentCommandHandler {
	return InitiatePaymentCommandHandler{
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

func (h InitiatePaymentCommandHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (InitiatePaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return InitiatePaymentResult{}, err
	}

	o, err := h.loadUnpaid(ctx, cmd.OrderNumber())
	if err != nil {
		return InitiatePaymentResult{}, err
	}

	push, err := h.gateway.InitiatePush(ctx, ports.PushRequest{
		Phone:     cmd.Phone(),
		Amount:    o.Total(),
		Reference: o.Number().String(),
		Note:      "Business cards " + o.Number().String(),
	})
	if err != nil {
		h.reconciler.logger.Error("push initiation failed",
			zap.Stringer("order_number", o.Number()),
			zap.Error(err),
		)
		return InitiatePaymentResult{}, err
	}

	return h.record(ctx, o.ID(), cmd.Phone(), push)
}

func (h InitiatePaymentCommandHandler) loadUnpaid(ctx context.Context, number kernel.OrderNumber) (*order.Order, error) {
	o, err := h.reconciler.uowFactory.Create().OrderRepository().GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if o.IsPaid() {
		return nil, order.ErrAlreadyPaid
	}
	return o, nil
}

func (h InitiatePaymentCommandHandler) record(
	ctx context.Context,
	orderID kernel.UUID,
	phone kernel.Phone,
	push ports.PushHandle,
) (InitiatePaymentResult, error) {
	r := h.reconciler
	now := r.clock()

	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return InitiatePaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return InitiatePaymentResult{}, err
	}
	if o.IsPaid() {
		return InitiatePaymentResult{}, order.ErrAlreadyPaid
	}

	var merchantID *string
	if push.MerchantRequestID != "" {
		merchantID = &push.MerchantRequestID
	}

	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), push.CheckoutRequestID, merchantID, payment.MethodMpesa, phone, o.Total(), now)
	if err != nil {
		return InitiatePaymentResult{}, err
	}
	if err = uow.PaymentRepository().Add(ctx, p); err != nil {
		return InitiatePaymentResult{}, err
	}

	var rec payment.Reconciliation
	if push.Settled != nil {
		outcome := *push.Settled
		outcome.Handle = p.Handle()
		if rec, err = reconcileLocked(ctx, uow, p, o, outcome, now); err != nil {
			return InitiatePaymentResult{}, err
		}
	}

	if err = commitAndPublish(ctx, uow, r.publisher); err != nil {
		return InitiatePaymentResult{}, err
	}

	r.logger.Info("payment initiated",
		zap.Stringer("order_number", o.Number()),
		zap.String("handle", p.Handle()),
		zap.Stringer("status", p.Status()),
	)

	r.runEffects(ctx, o, rec)

	return InitiatePaymentResult{
		CheckoutRequestID: p.Handle(),
		MerchantRequestID: push.MerchantRequestID,
		Status:            p.Status(),
		Receipt:           p.Receipt(),
		OrderStatus:       h.orderStatusAfter(ctx, o, rec),
	}, nil
}

// orderStatusAfter reports the order status once any auto-print has run.
func (h InitiatePaymentCommandHandler) orderStatusAfter(ctx context.Context, o *order.Order, rec payment.Reconciliation) order.Status {
	if !rec.Has(payment.EffectDispatchPrint) {
		return o.Status()
	}
	fresh, err := h.reconciler.uowFactory.Create().OrderRepository().Get(ctx, o.ID())
	if err != nil {
		return o.Status()
	}
	return fresh.Status()
}
