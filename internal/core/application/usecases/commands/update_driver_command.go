package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrUpdateDriverCommandIsNotConstructed = errors.New(
	"UpdateDriverCommand must be created via NewUpdateDriverCommand constructor",
)

// DriverPatch is the raw admin edit; nil fields stay unchanged.
type DriverPatch struct {
	Name         *string
	Phone        *string
	Password     *string
	VehicleType  *string
	VehiclePlate *string
	IsActive     *bool
}

// UpdateDriverCommand edits a driver. Deactivation goes through the same
// command with IsActive set to false.
type UpdateDriverCommand struct {
	driverID kernel.UUID
	changes  delivery.Changes

	guard guard.ConstructorGuard
}

func NewUpdateDriverCommand(driverID kernel.UUID, patch DriverPatch) (UpdateDriverCommand, error) {
	changes := delivery.Changes{
		Name:         patch.Name,
		Password:     patch.Password,
		VehicleType:  patch.VehicleType,
		VehiclePlate: patch.VehiclePlate,
		IsActive:     patch.IsActive,
	}

	var phoneErr error
	if patch.Phone != nil {
		var phone kernel.Phone
		phone, phoneErr = kernel.NewPhone(*patch.Phone)
		changes.Phone = &phone
	}
	if err := errors.Join(driverID.Validate(), phoneErr); err != nil {
		return UpdateDriverCommand{}, err
	}

	return UpdateDriverCommand{driverID: driverID, changes: changes, guard: guard.NewConstructorGuard()}, nil
}

// NewDeactivateDriverCommand stops a driver from logging in or being assigned.
func NewDeactivateDriverCommand(driverID kernel.UUID) (UpdateDriverCommand, error) {
	inactive := false
	return NewUpdateDriverCommand(driverID, DriverPatch{IsActive: &inactive})
}

func (c UpdateDriverCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverCommandIsNotConstructed)
}

func (c UpdateDriverCommand) DriverID() kernel.UUID     { return c.driverID }
func (c UpdateDriverCommand) Changes() delivery.Changes { return c.changes }
