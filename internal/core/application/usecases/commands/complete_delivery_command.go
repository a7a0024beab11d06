package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand closes a delivery with optional proof.
type CompleteDeliveryCommand struct {
	deliveryID kernel.UUID
	driverID   kernel.UUID
	proof      delivery.Proof

	guard guard.ConstructorGuard
}

func NewCompleteDeliveryCommand(deliveryID, driverID kernel.UUID, proof delivery.Proof) (CompleteDeliveryCommand, error) {
	if err := errors.Join(deliveryID.Validate(), driverID.Validate()); err != nil {
		return CompleteDeliveryCommand{}, err
	}
	return CompleteDeliveryCommand{
		deliveryID: deliveryID,
		driverID:   driverID,
		proof: delivery.Proof{
			Notes:     nonBlank(proof.Notes),
			Photo:     nonBlank(proof.Photo),
			Signature: nonBlank(proof.Signature),
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func (c CompleteDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c CompleteDeliveryCommand) DriverID() kernel.UUID   { return c.driverID }
func (c CompleteDeliveryCommand) Proof() delivery.Proof   { return c.proof }
