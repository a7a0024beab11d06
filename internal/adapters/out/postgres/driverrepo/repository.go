package driverrepo

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

// GormDriverRepository implements DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormDriverRepository creates a repository bound to db, which is the
// unit of work's transaction when one is open.
func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{db: db, tracker: tracker}
}

func (r *GormDriverRepository) Add(ctx context.Context, d *delivery.Driver) error {
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

// Update writes every column including IsActive, which GORM would skip as a
// zero value without the explicit Select.
func (r *GormDriverRepository) Update(ctx context.Context, d *delivery.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	result := r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("driver", d.ID().String())
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return first(r.db.WithContext(ctx), "id = ?", id.Bytes(), id.String())
}

func (r *GormDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id.Bytes(), id.String())
}

func (r *GormDriverRepository) GetByPhone(ctx context.Context, phone kernel.Phone) (*delivery.Driver, error) {
	if err := phone.Validate(); err != nil {
		return nil, err
	}
	return first(r.db.WithContext(ctx), "phone = ?", phone.String(), phone.String())
}

func first(db *gorm.DB, where string, arg any, key string) (*delivery.Driver, error) {
	var dto DriverDTO
	err := db.First(&dto, where, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("driver", key)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}
