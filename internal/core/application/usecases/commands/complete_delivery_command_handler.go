package commands

import (
	"context"
	"time"

	"github.com/silver-ring/printke-web/internal/core/ports"
)

// CompleteDeliveryCommandHandler marks a delivery and its order delivered.
// Completing twice fails with delivery.ErrAlreadyCompleted and changes nothing.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{uowFactory: uowFactory, publisher: publisher, clock: time.Now}
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, o, driver, err := lockDelivery(ctx, uow, cmd.DeliveryID(), cmd.DriverID())
	if err != nil {
		return err
	}

	now := h.clock()
	if err = d.Complete(driver, cmd.Proof(), now); err != nil {
		return err
	}
	if err = o.MarkDelivered(now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return commitAndPublish(ctx, uow, h.publisher)
}
