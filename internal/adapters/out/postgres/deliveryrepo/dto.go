// Package deliveryrepo provides data transfer objects and mapping functions for
// delivery persistence, including the append-only location history.
package deliveryrepo

import (
	"time"

	"github.com/google/uuid"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
)

// PointDTO is an optional coordinate pair embedded in a parent table.
// Both columns are null when the point is unknown.
type PointDTO struct {
	Lat *float64 `gorm:"type:numeric(10,8)"`
	Lng *float64 `gorm:"type:numeric(11,8)"`
}

// DeliveryDTO maps the deliveries table. One row per order at most.
type DeliveryDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	OrderNumber    string     `gorm:"type:varchar(20);not null"`
	DriverID       *uuid.UUID `gorm:"type:uuid;index"`
	Status         string     `gorm:"type:varchar(20);not null;index"`
	PickupAddress  *string    `gorm:"type:text"`
	Pickup         PointDTO   `gorm:"embedded;embeddedPrefix:pickup_"`
	DropoffAddress string     `gorm:"type:text;not null"`
	Dropoff        PointDTO   `gorm:"embedded;embeddedPrefix:dropoff_"`
	AssignedAt     time.Time  `gorm:"not null"`
	StartedAt      *time.Time
	DeliveredAt    *time.Time
	Notes          *string `gorm:"type:text"`
	ProofPhoto     *string `gorm:"type:varchar(255)"`
	Signature      *string `gorm:"type:text"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// LocationHistoryDTO is one immutable position fix reported during a delivery.
type LocationHistoryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Lat        float64   `gorm:"type:numeric(10,8);not null"`
	Lng        float64   `gorm:"type:numeric(11,8);not null"`
	Accuracy   *float64
	Speed      *float64
	RecordedAt time.Time `gorm:"not null;index"`
}

func (LocationHistoryDTO) TableName() string {
	return "location_history"
}

func pointFromDomain(loc *kernel.Location) PointDTO {
	if loc == nil {
		return PointDTO{}
	}
	lat, lng := loc.Lat(), loc.Lng()
	return PointDTO{Lat: &lat, Lng: &lng}
}

func (p PointDTO) toDomain() (*kernel.Location, error) {
	if p.Lat == nil || p.Lng == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(*p.Lat, *p.Lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	var driverID *uuid.UUID
	if d.DriverID() != nil {
		id := d.DriverID().Bytes()
		driverID = &id
	}

	return DeliveryDTO{
		ID:             d.ID().Bytes(),
		OrderID:        d.OrderID().Bytes(),
		OrderNumber:    d.OrderNumber().String(),
		DriverID:       driverID,
		Status:         d.Status().String(),
		PickupAddress:  d.PickupAddress(),
		Pickup:         pointFromDomain(d.PickupLocation()),
		DropoffAddress: d.DropoffAddress(),
		Dropoff:        pointFromDomain(d.DropoffLocation()),
		AssignedAt:     d.AssignedAt(),
		StartedAt:      d.StartedAt(),
		DeliveredAt:    d.DeliveredAt(),
		Notes:          d.Notes(),
		ProofPhoto:     d.ProofPhoto(),
		Signature:      d.Signature(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	number, err := kernel.OrderNumberFromString(dto.OrderNumber)
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		did, idErr := kernel.UUIDFromGoogle(*dto.DriverID)
		if idErr != nil {
			return nil, idErr
		}
		driverID = &did
	}

	pickup, err := dto.Pickup.toDomain()
	if err != nil {
		return nil, err
	}
	dropoff, err := dto.Dropoff.toDomain()
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(delivery.State{
		ID:              id,
		OrderID:         orderID,
		OrderNumber:     number,
		DriverID:        driverID,
		Status:          status,
		PickupAddress:   dto.PickupAddress,
		PickupLocation:  pickup,
		DropoffAddress:  dto.DropoffAddress,
		DropoffLocation: dropoff,
		AssignedAt:      dto.AssignedAt.UTC(),
		StartedAt:       utc(dto.StartedAt),
		DeliveredAt:     utc(dto.DeliveredAt),
		Notes:           dto.Notes,
		ProofPhoto:      dto.ProofPhoto,
		Signature:       dto.Signature,
	})
}

func locationFromDomain(f *delivery.LocationFix) LocationHistoryDTO {
	return LocationHistoryDTO{
		ID:         f.ID().Bytes(),
		DeliveryID: f.DeliveryID().Bytes(),
		Lat:        f.Location().Lat(),
		Lng:        f.Location().Lng(),
		Accuracy:   f.Accuracy(),
		Speed:      f.Speed(),
		RecordedAt: f.RecordedAt(),
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
