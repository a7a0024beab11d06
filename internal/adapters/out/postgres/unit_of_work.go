// Package postgres provides the GORM-based Unit of Work and schema migration
// for the fulfillment store.
//
// A unit of work wraps one database transaction. Repositories handed out by
// an open unit of work run inside that transaction and register every
// aggregate they persist. On a successful Commit the events recorded by those
// aggregates are collected in the order they were raised and become
// available through CommittedEvents; a rollback discards them.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, id)
//	...
//	if err := uow.Commit(ctx); err != nil {
//	    return err
//	}
//	publisher.Publish(ctx, uow.CommittedEvents()...)
//
// Each goroutine must use its own UnitOfWork instance.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/deliveryrepo"
	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/driverrepo"
	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/orderrepo"
	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/paymentrepo"
	"github.com/silver-ring/printke-web/internal/adapters/out/postgres/printjobrepo"
	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work with its own transaction state and
// aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the repositories
// and collects the domain events of the aggregates saved through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
	committed         []events.Event
}

// Begin starts a transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit makes the transaction permanent and, on success, moves the events
// raised by tracked aggregates into the committed buffer.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.committed = append(uow.committed, uow.pullTrackedEvents()...)
	return nil
}

// Rollback discards the open transaction and anything tracked inside it.
// It returns gorm.ErrInvalidTransaction when nothing is open, which makes it
// safe to defer after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) CommittedEvents() []events.Event {
	evts := uow.committed
	uow.committed = nil
	return evts
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentrepo.NewGormPaymentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PrintJobRepository() ports.PrintJobRepository {
	return printjobrepo.NewGormPrintJobRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.conn(), uow)
}

// TrackAggregate registers an aggregate persisted within this unit of work.
// Repositories call it after every successful write. Tracking the same
// aggregate twice is harmless because its events are pulled only once.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the open transaction, or the pool for reads outside one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) pullTrackedEvents() []events.Event {
	var evts []events.Event
	for _, tracked := range uow.trackedAggregates {
		if src, ok := tracked.Aggregate.(events.Source); ok {
			evts = append(evts, src.PullEvents()...)
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return events.InRaisedOrder(evts)
}
