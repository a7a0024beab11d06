package queries

import (
	"errors"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var (
	ErrListDriversQueryIsNotConstructed = errors.New("ListDriversQuery must be created via NewListDriversQuery constructor")
	ErrGetDriverQueryIsNotConstructed   = errors.New("GetDriverQuery must be created via NewGetDriverQuery constructor")
)

// DriverView is the roster entry of a driver. The password hash never
// leaves the repository.
type DriverView struct {
	ID             kernel.UUID
	Name           string
	Phone          string
	VehicleType    *string
	VehiclePlate   *string
	IsActive       bool
	LastLat        *float64
	LastLng        *float64
	LastFixAt      *time.Time
	OpenDeliveries int
	CreatedAt      time.Time
}

// ListDriversQuery lists drivers by name. ActiveOnly hides deactivated ones.
type ListDriversQuery struct {
	activeOnly bool
	guard      guard.ConstructorGuard
}

func NewListDriversQuery(activeOnly bool) ListDriversQuery {
	return ListDriversQuery{activeOnly: activeOnly, guard: guard.NewConstructorGuard()}
}

func (q ListDriversQuery) Validate() error {
	return q.guard.Validate(ErrListDriversQueryIsNotConstructed)
}

// GetDriverQuery reads one driver, used for the signed-in driver's profile.
type GetDriverQuery struct {
	id    kernel.UUID
	guard guard.ConstructorGuard
}

func NewGetDriverQuery(id kernel.UUID) (GetDriverQuery, error) {
	if err := id.Validate(); err != nil {
		return GetDriverQuery{}, err
	}
	return GetDriverQuery{id: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDriverQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverQueryIsNotConstructed)
}
