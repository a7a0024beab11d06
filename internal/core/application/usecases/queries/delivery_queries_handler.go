package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const deliveryColumns = `
	SELECT
		dl.id, dl.order_number, dl.status, dl.driver_id, dr.name,
		o.customer_name, o.customer_phone, dl.dropoff_address, o.city,
		dl.dropoff_lat, dl.dropoff_lng,
		(SELECT coalesce(sum(i.quantity), 0) FROM order_items i WHERE i.order_id = o.id),
		o.total, dl.assigned_at, dl.started_at, dl.delivered_at
	FROM deliveries dl
	JOIN orders o ON o.id = dl.order_id
	LEFT JOIN drivers dr ON dr.id = dl.driver_id
`

// DeliveryQueryHandler serves the delivery read models over plain SQL.
type DeliveryQueryHandler struct {
	db *gorm.DB
}

func NewDeliveryQueryHandler(db *gorm.DB) DeliveryQueryHandler {
	return DeliveryQueryHandler{db: db}
}

func (h DeliveryQueryHandler) ForDriver(ctx context.Context, query GetDriverDeliveriesQuery) ([]DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.list(h.db.WithContext(ctx).Raw(deliveryColumns+`
		WHERE dl.driver_id = ? AND dl.status IN ('assigned', 'in_transit')
		ORDER BY dl.assigned_at DESC`, query.driverID.Bytes()))
}

func (h DeliveryQueryHandler) Active(ctx context.Context, query GetActiveDeliveriesQuery) ([]DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.list(h.db.WithContext(ctx).Raw(deliveryColumns + `
		WHERE dl.status IN ('assigned', 'in_transit')
		ORDER BY dl.assigned_at DESC`))
}

func (h DeliveryQueryHandler) Get(ctx context.Context, query GetDeliveryQuery) (DeliveryDetail, error) {
	if err := query.Validate(); err != nil {
		return DeliveryDetail{}, err
	}

	db := h.db.WithContext(ctx)
	views, err := h.list(db.Raw(deliveryColumns+" WHERE dl.id = ?", query.id.Bytes()))
	if err != nil {
		return DeliveryDetail{}, err
	}
	if len(views) == 0 {
		return DeliveryDetail{}, errs.NewObjectNotFoundError("delivery", query.id.String())
	}

	detail := DeliveryDetail{DeliveryView: views[0]}
	if query.viewer != nil && (detail.DriverID == nil || !detail.DriverID.IsEqual(*query.viewer)) {
		return DeliveryDetail{}, ErrDeliveryNotVisible
	}

	err = db.Raw(`SELECT pickup_address, notes, proof_photo, signature FROM deliveries WHERE id = ?`,
		query.id.Bytes()).Row().Scan(&detail.PickupAddress, &detail.Notes, &detail.ProofPhoto, &detail.Signature)
	if err != nil {
		return DeliveryDetail{}, err
	}

	err = db.Raw(`
		SELECT lat, lng, recorded_at
		FROM location_history
		WHERE delivery_id = ?
		ORDER BY recorded_at DESC
		LIMIT 1
	`, query.id.Bytes()).Row().Scan(&detail.LastLat, &detail.LastLng, &detail.LastFixAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return DeliveryDetail{}, err
	}
	normalizeTimes(nil, detail.LastFixAt)
	return detail, nil
}

func (h DeliveryQueryHandler) list(db *gorm.DB) ([]DeliveryView, error) {
	rows, err := db.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]DeliveryView, 0)
	for rows.Next() {
		var v DeliveryView
		var id uuid.UUID
		var driverID *uuid.UUID
		if err = rows.Scan(
			&id, &v.OrderNumber, &v.Status, &driverID, &v.DriverName,
			&v.CustomerName, &v.CustomerPhone, &v.DropoffAddress, &v.City,
			&v.DropoffLat, &v.DropoffLng, &v.Quantity,
			&v.Total, &v.AssignedAt, &v.StartedAt, &v.DeliveredAt,
		); err != nil {
			return nil, err
		}
		if v.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		if driverID != nil {
			did, idErr := kernel.UUIDFromGoogle(*driverID)
			if idErr != nil {
				return nil, idErr
			}
			v.DriverID = &did
		}
		normalizeTimes(&v.AssignedAt, v.StartedAt, v.DeliveredAt)
		views = append(views, v)
	}
	return views, rows.Err()
}
