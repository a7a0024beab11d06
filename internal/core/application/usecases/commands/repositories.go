// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence and, after a successful commit, event publication.
package commands

import (
	"context"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Every per-order mutation locks the order row first, then payment or delivery rows.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
		CommittedEvents() []events.Event
	}

	// UoW gives a transaction scoped view of every fulfillment repository.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//   // ... mutate and update
	//
	//   err = uow.Commit(ctx)
	//   publisher.Publish(ctx, uow.CommittedEvents()...)
	UoW interface {
		TxManager
		OrderRepository() ports.OrderRepository
		PaymentRepository() ports.PaymentRepository
		PrintJobRepository() ports.PrintJobRepository
		DeliveryRepository() ports.DeliveryRepository
		DriverRepository() ports.DriverRepository
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)

// Clock returns the current time. Handlers default to time.Now.
type Clock func() time.Time

func commitAndPublish(ctx context.Context, uow UoW, publisher ports.EventPublisher) error {
	if err := uow.Commit(ctx); err != nil {
		return err
	}
	if publisher != nil {
		publisher.Publish(ctx, uow.CommittedEvents()...)
	}
	return nil
}
