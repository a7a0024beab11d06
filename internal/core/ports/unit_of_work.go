package ports

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// CommittedEvents returns the events raised by aggregates saved through
	// this unit of work, in the order they were raised. It is empty until
	// Commit succeeds and is drained by the call.
	CommittedEvents() []events.Event

	OrderRepository() OrderRepository
	PaymentRepository() PaymentRepository
	PrintJobRepository() PrintJobRepository
	DeliveryRepository() DeliveryRepository
	DriverRepository() DriverRepository
}
