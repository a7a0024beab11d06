// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories bound to a unit of work, and the external
// collaborators (payment gateway, print backend, document storage, event
// fan-out, driver sessions).
package ports

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The order row is the lock every per-order mutation takes first.
type OrderRepository interface {
	// Add persists a new order together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order and its items. It fails with
	// errs.ErrConflict if the stored version no longer matches the aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order by id and locks its row until the
	// transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its public order number without locking it.
	GetByNumber(ctx context.Context, number kernel.OrderNumber) (*order.Order, error)

	// GetByNumberForUpdate is GetForUpdate keyed by the public order number.
	GetByNumberForUpdate(ctx context.Context, number kernel.OrderNumber) (*order.Order, error)
}
