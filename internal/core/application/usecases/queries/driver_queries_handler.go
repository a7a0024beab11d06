package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const driverColumns = `
	SELECT
		d.id, d.name, d.phone, d.vehicle_type, d.vehicle_plate, d.is_active,
		d.last_lat, d.last_lng, d.last_fix_at,
		(SELECT count(*) FROM deliveries x
			WHERE x.driver_id = d.id AND x.status IN ('assigned', 'in_transit')),
		d.created_at
	FROM drivers d
`

// DriverQueryHandler serves both driver read models.
type DriverQueryHandler struct {
	db *gorm.DB
}

func NewDriverQueryHandler(db *gorm.DB) DriverQueryHandler {
	return DriverQueryHandler{db: db}
}

func (h DriverQueryHandler) List(ctx context.Context, query ListDriversQuery) ([]DriverView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := driverColumns
	if query.activeOnly {
		sql += " WHERE d.is_active"
	}
	sql += " ORDER BY d.name, d.created_at"
	return h.scan(h.db.WithContext(ctx).Raw(sql))
}

// Get returns errs.ErrObjectNotFound for an unknown id.
func (h DriverQueryHandler) Get(ctx context.Context, query GetDriverQuery) (DriverView, error) {
	if err := query.Validate(); err != nil {
		return DriverView{}, err
	}

	drivers, err := h.scan(h.db.WithContext(ctx).Raw(driverColumns+" WHERE d.id = ?", query.id.Bytes()))
	if err != nil {
		return DriverView{}, err
	}
	if len(drivers) == 0 {
		return DriverView{}, errs.NewObjectNotFoundError("driver", query.id.String())
	}
	return drivers[0], nil
}

func (h DriverQueryHandler) scan(db *gorm.DB) ([]DriverView, error) {
	rows, err := db.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]DriverView, 0)
	for rows.Next() {
		var d DriverView
		var id uuid.UUID
		if err = rows.Scan(
			&id, &d.Name, &d.Phone, &d.VehicleType, &d.VehiclePlate, &d.IsActive,
			&d.LastLat, &d.LastLng, &d.LastFixAt, &d.OpenDeliveries, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		if d.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		normalizeTimes(&d.CreatedAt, d.LastFixAt)
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}
