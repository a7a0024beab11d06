package commands

import (
	"errors"
	"strings"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand hands an order to a driver. Assigning an order that
// already has a delivery repoints that delivery instead of creating another.
//
// Example:
//
//	cmd, err := NewAssignDeliveryCommand(orderID, driverID, nil, nil)
//	if err != nil {
//	    return err
//	}
//	handler := NewAssignDeliveryCommandHandler(uowFactory, publisher)
//	deliveryID, err := handler.Handle(ctx, cmd)
type AssignDeliveryCommand struct {
	orderID       kernel.UUID
	driverID      kernel.UUID
	pickupAddress *string
	notes         *string

	guard guard.ConstructorGuard
}

func NewAssignDeliveryCommand(orderID, driverID kernel.UUID, pickupAddress, notes *string) (AssignDeliveryCommand, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return AssignDeliveryCommand{}, err
	}
	return AssignDeliveryCommand{
		orderID:       orderID,
		driverID:      driverID,
		pickupAddress: nonBlank(pickupAddress),
		notes:         nonBlank(notes),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

func (c AssignDeliveryCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AssignDeliveryCommand) DriverID() kernel.UUID  { return c.driverID }
func (c AssignDeliveryCommand) PickupAddress() *string { return c.pickupAddress }
func (c AssignDeliveryCommand) Notes() *string         { return c.notes }

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
