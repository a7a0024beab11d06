package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrRecordLocationCommandIsNotConstructed = errors.New(
	"RecordLocationCommand must be created via NewRecordLocationCommand constructor",
)

// RecordLocationCommand is one GPS fix posted by a driver.
type RecordLocationCommand struct {
	deliveryID kernel.UUID
	driverID   kernel.UUID
	location   kernel.Location
	accuracy   *float64
	speed      *float64

	guard guard.ConstructorGuard
}

// NewRecordLocationCommand rejects latitudes outside [-90, 90] and
// longitudes outside [-180, 180].
func NewRecordLocationCommand(
	deliveryID kernel.UUID,
	driverID kernel.UUID,
	lat float64,
	lng float64,
	accuracy *float64,
	speed *float64,
) (RecordLocationCommand, error) {
	loc, locErr := kernel.NewLocation(lat, lng)
	if err := errors.Join(deliveryID.Validate(), driverID.Validate(), locErr); err != nil {
		return RecordLocationCommand{}, err
	}

	return RecordLocationCommand{
		deliveryID: deliveryID,
		driverID:   driverID,
		location:   loc,
		accuracy:   accuracy,
		speed:      speed,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RecordLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecordLocationCommandIsNotConstructed)
}

func (c RecordLocationCommand) DeliveryID() kernel.UUID   { return c.deliveryID }
func (c RecordLocationCommand) DriverID() kernel.UUID     { return c.driverID }
func (c RecordLocationCommand) Location() kernel.Location { return c.location }
func (c RecordLocationCommand) Accuracy() *float64        { return c.accuracy }
func (c RecordLocationCommand) Speed() *float64           { return c.speed }
