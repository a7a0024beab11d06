package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

type CreateDriverCommand struct {
	driverID     kernel.UUID
	name         string
	phone        kernel.Phone
	password     string
	vehicleType  *string
	vehiclePlate *string

	guard guard.ConstructorGuard
}

func NewCreateDriverCommand(
	driverID kernel.UUID,
	name string,
	phone string,
	password string,
	vehicleType *string,
	vehiclePlate *string,
) (CreateDriverCommand, error) {
	msisdn, phoneErr := kernel.NewPhone(phone)
	if err := errors.Join(driverID.Validate(), phoneErr); err != nil {
		return CreateDriverCommand{}, err
	}

	return CreateDriverCommand{
		driverID:     driverID,
		name:         name,
		phone:        msisdn,
		password:     password,
		vehicleType:  vehicleType,
		vehiclePlate: vehiclePlate,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

func (c CreateDriverCommand) DriverID() kernel.UUID { return c.driverID }
func (c CreateDriverCommand) Name() string          { return c.name }
func (c CreateDriverCommand) Phone() kernel.Phone   { return c.phone }
func (c CreateDriverCommand) Password() string      { return c.password }
func (c CreateDriverCommand) VehicleType() *string  { return c.vehicleType }
func (c CreateDriverCommand) VehiclePlate() *string { return c.vehiclePlate }
