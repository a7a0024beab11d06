package commands

import (
	"context"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// UpdateOrderStatusCommandHandler moves an order one step along the
// transition table; skipping milestones fails with errs.ErrInvalidTransition.
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewUpdateOrderStatusCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{uowFactory: uowFactory, publisher: publisher, clock: time.Now}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetByNumberForUpdate(ctx, cmd.OrderNumber())
	if err != nil {
		return order.Unknown, err
	}

	if cmd.Status() != nil {
		if err = o.ChangeStatus(*cmd.Status(), h.clock()); err != nil {
			return order.Unknown, err
		}
	}
	if cmd.TrackingNumber() != nil {
		o.SetTracking(cmd.TrackingNumber())
	}
	if cmd.Notes() != nil {
		o.SetDeliveryNotes(cmd.Notes())
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return order.Unknown, err
	}
	if err = commitAndPublish(ctx, uow, h.publisher); err != nil {
		return order.Unknown, err
	}
	return o.Status(), nil
}
