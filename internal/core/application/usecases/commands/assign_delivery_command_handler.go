package commands

import (
	"context"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// AssignDeliveryCommandHandler ships an order with a driver.
//
// Rules:
//   - only paid, processing, printed and shipped orders can be assigned
//   - the driver must be active
//   - at most one delivery exists per order; a second assignment reuses it
//   - the order moves to shipped unless it is already past it
type AssignDeliveryCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewAssignDeliveryCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      time.Now,
	}
}

// Handle returns the id of the created or reassigned delivery.
func (h AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = o.ShipForDelivery(now); err != nil {
		return kernel.UUID{}, err
	}

	driver, err := uow.DriverRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return kernel.UUID{}, err
	}

	d, err := uow.DeliveryRepository().FindByOrderForUpdate(ctx, o.ID())
	if err != nil {
		return kernel.UUID{}, err
	}

	if d == nil {
		d, err = delivery.NewDelivery(kernel.NewUUID(), o.ID(), o.Number(), o.Address().Street(), driver, now)
		if err != nil {
			return kernel.UUID{}, err
		}
		applyAssignmentDetails(d, cmd)
		err = uow.DeliveryRepository().Add(ctx, d)
	} else {
		if err = d.Reassign(driver, now); err != nil {
			return kernel.UUID{}, err
		}
		applyAssignmentDetails(d, cmd)
		err = uow.DeliveryRepository().Update(ctx, d)
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	if cmd.Notes() != nil {
		o.SetDeliveryNotes(cmd.Notes())
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	if err = commitAndPublish(ctx, uow, h.publisher); err != nil {
		return kernel.UUID{}, err
	}
	return d.ID(), nil
}

func applyAssignmentDetails(d *delivery.Delivery, cmd AssignDeliveryCommand) {
	if cmd.PickupAddress() != nil {
		d.SetPickup(cmd.PickupAddress(), d.PickupLocation())
	}
}
