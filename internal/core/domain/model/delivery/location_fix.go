package delivery

import (
	"errors"
	"math"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// LocationFix is one immutable row of a delivery's location history.
type LocationFix struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	location   kernel.Location
	accuracy   *float64
	speed      *float64
	recordedAt time.Time
}

// NewLocationFix validates a GPS sample. Accuracy and speed are optional
// but must not be negative when present.
func NewLocationFix(
	id kernel.UUID,
	deliveryID kernel.UUID,
	location kernel.Location,
	accuracy *float64,
	speed *float64,
	recordedAt time.Time,
) (*LocationFix, error) {
	if err := errors.Join(
		id.Validate(),
		deliveryID.Validate(),
		location.Validate(),
		nonNegative("accuracy", accuracy),
		nonNegative("speed", speed),
	); err != nil {
		return nil, err
	}

	return &LocationFix{
		id:         id,
		deliveryID: deliveryID,
		location:   location,
		accuracy:   accuracy,
		speed:      speed,
		recordedAt: recordedAt.UTC(),
	}, nil
}

func (f *LocationFix) ID() kernel.UUID           { return f.id }
func (f *LocationFix) DeliveryID() kernel.UUID   { return f.deliveryID }
func (f *LocationFix) Location() kernel.Location { return f.location }
func (f *LocationFix) Accuracy() *float64        { return f.accuracy }
func (f *LocationFix) Speed() *float64           { return f.speed }
func (f *LocationFix) RecordedAt() time.Time     { return f.recordedAt }

func nonNegative(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || *v < 0 {
		return errs.NewValueIsOutOfRangeError(name, *v, 0, math.MaxFloat64)
	}
	return nil
}
