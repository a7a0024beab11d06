// Package driverrepo provides data transfer objects and mapping functions for
// driver persistence.
package driverrepo

import (
	"time"

	"github.com/google/uuid"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
)

// DriverDTO represents the database structure for persisting driver aggregates.
// The last known position is embedded so the admin roster reads one table.
type DriverDTO struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name         string      `gorm:"type:varchar(100);not null"`
	Phone        string      `gorm:"type:varchar(15);not null;uniqueIndex"`
	PasswordHash string      `gorm:"type:varchar(255);not null"`
	VehicleType  *string     `gorm:"type:varchar(50)"`
	VehiclePlate *string     `gorm:"type:varchar(20)"`
	IsActive     bool        `gorm:"not null;default:true"`
	Last         LocationDTO `gorm:"embedded;embeddedPrefix:last_"`
	LastFixAt    *time.Time
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName overrides GORM's default "driver_dtos".
func (DriverDTO) TableName() string {
	return "drivers"
}

// LocationDTO stores the driver's most recent fix; both columns are null
// until the first one arrives.
type LocationDTO struct {
	Lat *float64 `gorm:"type:numeric(10,8)"`
	Lng *float64 `gorm:"type:numeric(11,8)"`
}

func fromDomain(d *delivery.Driver) DriverDTO {
	var last LocationDTO
	if pos := d.LastPosition(); pos != nil {
		lat, lng := pos.Lat(), pos.Lng()
		last = LocationDTO{Lat: &lat, Lng: &lng}
	}

	return DriverDTO{
		ID:           d.ID().Bytes(),
		Name:         d.Name(),
		Phone:        d.Phone().String(),
		PasswordHash: d.PasswordHash(),
		VehicleType:  d.VehicleType(),
		VehiclePlate: d.VehiclePlate(),
		IsActive:     d.IsActive(),
		Last:         last,
		LastFixAt:    d.LastFixAt(),
		CreatedAt:    d.CreatedAt(),
	}
}

func toDomain(dto DriverDTO) (*delivery.Driver, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	phone, err := kernel.NewPhone(dto.Phone)
	if err != nil {
		return nil, err
	}

	var last *kernel.Location
	if dto.Last.Lat != nil && dto.Last.Lng != nil {
		loc, locErr := kernel.NewLocation(*dto.Last.Lat, *dto.Last.Lng)
		if locErr != nil {
			return nil, locErr
		}
		last = &loc
	}

	var lastFixAt *time.Time
	if dto.LastFixAt != nil {
		t := dto.LastFixAt.UTC()
		lastFixAt = &t
	}

	return delivery.RestoreDriver(delivery.DriverState{
		ID:           id,
		Name:         dto.Name,
		Phone:        phone,
		PasswordHash: dto.PasswordHash,
		VehicleType:  dto.VehicleType,
		VehiclePlate: dto.VehiclePlate,
		IsActive:     dto.IsActive,
		LastPosition: last,
		LastFixAt:    lastFixAt,
		CreatedAt:    dto.CreatedAt.UTC(),
	})
}
