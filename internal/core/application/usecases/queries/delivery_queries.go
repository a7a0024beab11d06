package queries

import (
	"errors"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var (
	ErrGetDriverDeliveriesQueryIsNotConstructed = errors.New(
		"GetDriverDeliveriesQuery must be created via NewGetDriverDeliveriesQuery constructor")
	ErrGetActiveDeliveriesQueryIsNotConstructed = errors.New(
		"GetActiveDeliveriesQuery must be created via NewGetActiveDeliveriesQuery constructor")
	ErrGetDeliveryQueryIsNotConstructed = errors.New(
		"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor")

	// ErrDeliveryNotVisible is returned when a driver asks for a delivery
	// assigned to someone else.
	ErrDeliveryNotVisible = errs.NewForbiddenError("delivery", "is assigned to another driver")
)

// DeliveryView is a delivery with the order summary a driver needs on the road.
type DeliveryView struct {
	ID             kernel.UUID
	OrderNumber    string
	Status         string
	DriverID       *kernel.UUID
	DriverName     *string
	CustomerName   string
	CustomerPhone  string
	DropoffAddress string
	City           string
	DropoffLat     *float64
	DropoffLng     *float64
	Quantity       int
	Total          int64
	AssignedAt     time.Time
	StartedAt      *time.Time
	DeliveredAt    *time.Time
}

// DeliveryDetail adds proof of delivery, notes and the most recent fix.
type DeliveryDetail struct {
	DeliveryView
	PickupAddress *string
	Notes         *string
	ProofPhoto    *string
	Signature     *string
	LastLat       *float64
	LastLng       *float64
	LastFixAt     *time.Time
}

// GetDriverDeliveriesQuery lists the open deliveries of one driver, newest first.
type GetDriverDeliveriesQuery struct {
	driverID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetDriverDeliveriesQuery(driverID kernel.UUID) (GetDriverDeliveriesQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverDeliveriesQuery{}, err
	}
	return GetDriverDeliveriesQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDriverDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverDeliveriesQueryIsNotConstructed)
}

func (q GetDriverDeliveriesQuery) DriverID() kernel.UUID { return q.driverID }

// GetActiveDeliveriesQuery lists every open delivery for the admin board.
type GetActiveDeliveriesQuery struct {
	guard guard.ConstructorGuard
}

func NewGetActiveDeliveriesQuery() GetActiveDeliveriesQuery {
	return GetActiveDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

func (q GetActiveDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDeliveriesQueryIsNotConstructed)
}

// GetDeliveryQuery reads one delivery. When viewer is set, the delivery must
// be assigned to that driver.
type GetDeliveryQuery struct {
	id     kernel.UUID
	viewer *kernel.UUID
	guard  guard.ConstructorGuard
}

func NewGetDeliveryQuery(id kernel.UUID, viewer *kernel.UUID) (GetDeliveryQuery, error) {
	if err := id.Validate(); err != nil {
		return GetDeliveryQuery{}, err
	}
	if viewer != nil {
		if err := viewer.Validate(); err != nil {
			return GetDeliveryQuery{}, err
		}
	}
	return GetDeliveryQuery{id: id, viewer: viewer, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}
