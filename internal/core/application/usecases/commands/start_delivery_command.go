package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

// StartDeliveryCommand is sent by the driver leaving with the parcel.
type StartDeliveryCommand struct {
	deliveryID kernel.UUID
	driverID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewStartDeliveryCommand(deliveryID, driverID kernel.UUID) (StartDeliveryCommand, error) {
	if err := errors.Join(deliveryID.Validate(), driverID.Validate()); err != nil {
		return StartDeliveryCommand{}, err
	}
	return StartDeliveryCommand{deliveryID: deliveryID, driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

func (c StartDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c StartDeliveryCommand) DriverID() kernel.UUID   { return c.driverID }
