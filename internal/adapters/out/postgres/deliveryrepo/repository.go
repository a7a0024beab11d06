package deliveryrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormDeliveryRepository implements DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db, tracker: tracker}
}

func (r *GormDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

// Update writes every column, so a no-op mutation still touches the row
// and the aggregate's recorded events are collected on commit.
func (r *GormDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", d.ID().String())
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return first(r.db.WithContext(ctx), "id = ?", id.Bytes(), id.String())
}

func (r *GormDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return first(r.locking(ctx), "id = ?", id.Bytes(), id.String())
}

func (r *GormDeliveryRepository) FindByOrderForUpdate(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	d, err := first(r.locking(ctx), "order_id = ?", orderID.Bytes(), orderID.String())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return d, err
}

func (r *GormDeliveryRepository) AppendLocation(ctx context.Context, fix *delivery.LocationFix) error {
	if fix == nil {
		return errs.NewValueIsRequiredError("location fix")
	}
	dto := locationFromDomain(fix)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormDeliveryRepository) locking(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func first(db *gorm.DB, where string, arg any, key string) (*delivery.Delivery, error) {
	var dto DeliveryDTO
	err := db.First(&dto, where, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("delivery", key)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}
