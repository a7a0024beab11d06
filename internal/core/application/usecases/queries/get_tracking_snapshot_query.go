package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrGetTrackingSnapshotQueryIsNotConstructed = errors.New(
	"GetTrackingSnapshotQuery must be created via NewGetTrackingSnapshotQuery constructor",
)

// GetTrackingSnapshotQuery renders the current_status message a tracking
// subscriber receives right after connecting.
type GetTrackingSnapshotQuery struct {
	number kernel.OrderNumber
	guard  guard.ConstructorGuard
}

func NewGetTrackingSnapshotQuery(number string) (GetTrackingSnapshotQuery, error) {
	n, err := kernel.OrderNumberFromString(number)
	if err != nil {
		return GetTrackingSnapshotQuery{}, err
	}
	return GetTrackingSnapshotQuery{number: n, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTrackingSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingSnapshotQueryIsNotConstructed)
}

type GetTrackingSnapshotQueryHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGetTrackingSnapshotQueryHandler(db *gorm.DB, now func() time.Time) GetTrackingSnapshotQueryHandler {
	if now == nil {
		now = time.Now
	}
	return GetTrackingSnapshotQueryHandler{db: db, now: now}
}

// Handle reports the delivery status when the order has a delivery and the
// order status otherwise. Unknown orders yield errs.ErrObjectNotFound.
func (h GetTrackingSnapshotQueryHandler) Handle(ctx context.Context, query GetTrackingSnapshotQuery) (events.Event, error) {
	if err := query.Validate(); err != nil {
		return events.Event{}, err
	}

	evt := events.Event{
		Type:        events.CurrentStatus,
		OrderNumber: query.number.String(),
		Timestamp:   h.now().UTC(),
	}

	var (
		orderStatus  string
		deliveryID   *uuid.UUID
		deliveryStat *string
		assignedAt   *time.Time
		driverName   *string
		driverPhone  *string
		vehicle      *string
		lastLat      *float64
		lastLng      *float64
		lastFixAt    *time.Time
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.status, dl.id, dl.status, dl.assigned_at, dl.started_at, dl.delivered_at,
			dr.name, dr.phone, dr.vehicle_type, dr.last_lat, dr.last_lng, dr.last_fix_at
		FROM orders o
		LEFT JOIN deliveries dl ON dl.order_id = o.id
		LEFT JOIN drivers dr ON dr.id = dl.driver_id
		WHERE o.number = ?
	`, query.number.String()).Row().Scan(
		&orderStatus, &deliveryID, &deliveryStat, &assignedAt, &evt.StartedAt, &evt.DeliveredAt,
		&driverName, &driverPhone, &vehicle, &lastLat, &lastLng, &lastFixAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return events.Event{}, errs.NewObjectNotFoundError("order", query.number.String())
	}
	if err != nil {
		return events.Event{}, err
	}

	evt.Status = orderStatus
	if deliveryID == nil {
		return evt, nil
	}

	evt.DeliveryID = deliveryID.String()
	evt.Status = *deliveryStat
	evt.AssignedAt = assignedAt
	normalizeTimes(nil, evt.AssignedAt, evt.StartedAt, evt.DeliveredAt, lastFixAt)
	if driverName != nil {
		evt.DriverName = *driverName
		evt.Driver = &events.DriverSnapshot{
			Name:      *driverName,
			Phone:     *driverPhone,
			Vehicle:   vehicle,
			Lat:       lastLat,
			Lng:       lastLng,
			LastFixAt: lastFixAt,
		}
		evt.Lat, evt.Lng = lastLat, lastLng
	}
	return evt, nil
}
