package ports

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
)

// DeliveryRepository persists deliveries and their append-only location history.
type DeliveryRepository interface {
	Add(ctx context.Context, d *delivery.Delivery) error
	Update(ctx context.Context, d *delivery.Delivery) error

	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate locks the delivery row. Callers lock the owning order first.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// FindByOrderForUpdate returns the order's delivery, or (nil, nil) when the
	// order was never assigned.
	FindByOrderForUpdate(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// AppendLocation inserts an immutable history row.
	AppendLocation(ctx context.Context, fix *delivery.LocationFix) error
}

type DriverRepository interface {
	Add(ctx context.Context, d *delivery.Driver) error
	Update(ctx context.Context, d *delivery.Driver) error
	Get(ctx context.Context, id kernel.UUID) (*delivery.Driver, error)
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Driver, error)

	// GetByPhone looks a driver up by normalized phone, the login identifier.
	GetByPhone(ctx context.Context, phone kernel.Phone) (*delivery.Driver, error)
}
