package commands

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
)

// lockDelivery loads a delivery with its order and the acting driver, taking
// the order lock before the delivery lock.
func lockDelivery(
	ctx context.Context,
	uow UoW,
	deliveryID kernel.UUID,
	driverID kernel.UUID,
) (*delivery.Delivery, *order.Order, *delivery.Driver, error) {
	peek, err := uow.DeliveryRepository().Get(ctx, deliveryID)
	if err != nil {
		return nil, nil, nil, err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, peek.OrderID())
	if err != nil {
		return nil, nil, nil, err
	}

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, nil, nil, err
	}

	driver, err := uow.DriverRepository().Get(ctx, driverID)
	if err != nil {
		return nil, nil, nil, err
	}
	return d, o, driver, nil
}
