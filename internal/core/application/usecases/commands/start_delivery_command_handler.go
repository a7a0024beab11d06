package commands

import (
	"context"
	"time"

	"github.com/silver-ring/printke-web/internal/core/ports"
)

// StartDeliveryCommandHandler puts a delivery and its order in transit.
// Only the assigned driver may start it, and only once.
type StartDeliveryCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewStartDeliveryCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{uowFactory: uowFactory, publisher: publisher, clock: time.Now}
}

func (h StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) error {
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
	if err = d.Start(driver, now); err != nil {
		return err
	}
	if err = o.MarkInTransit(now); err != nil {
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
