package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand is the administrative edit of an order. Every
// field is optional; a nil status leaves the status alone.
type UpdateOrderStatusCommand struct {
	orderNumber    kernel.OrderNumber
	status         *order.Status
	trackingNumber *string
	notes          *string

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(orderNumber string, status *string, trackingNumber, notes *string) (UpdateOrderStatusCommand, error) {
	number, err := kernel.OrderNumberFromString(orderNumber)
	if err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	cmd := UpdateOrderStatusCommand{
		orderNumber:    number,
		trackingNumber: trackingNumber,
		notes:          notes,
		guard:          guard.NewConstructorGuard(),
	}
	if status != nil {
		s, parseErr := order.ParseStatus(*status)
		if parseErr != nil {
			return UpdateOrderStatusCommand{}, parseErr
		}
		cmd.status = &s
	}
	return cmd, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderNumber() kernel.OrderNumber { return c.orderNumber }
func (c UpdateOrderStatusCommand) Status() *order.Status           { return c.status }
func (c UpdateOrderStatusCommand) TrackingNumber() *string         { return c.trackingNumber }
func (c UpdateOrderStatusCommand) Notes() *string                  { return c.notes }
