package paymentrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{db: db, tracker: tracker}
}

func (r *GormPaymentRepository) Add(ctx context.Context, p *payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(p.ID(), p)
	return nil
}

func (r *GormPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	result := r.db.WithContext(ctx).Model(&PaymentDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("payment", p.ID().String())
	}

	r.tracker.TrackAggregate(p.ID(), p)
	return nil
}

func (r *GormPaymentRepository) GetByHandle(ctx context.Context, handle string) (*payment.Payment, error) {
	return r.byHandle(r.db.WithContext(ctx), handle)
}

func (r *GormPaymentRepository) GetByHandleForUpdate(ctx context.Context, handle string) (*payment.Payment, error) {
	return r.byHandle(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), handle)
}

// ListPendingCreatedBefore returns the oldest pending payments first.
func (r *GormPaymentRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error) {
	var dtos []PaymentDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", payment.Pending.String(), cutoff.UTC()).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	payments := make([]*payment.Payment, 0, len(dtos))
	for _, dto := range dtos {
		p, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *GormPaymentRepository) byHandle(db *gorm.DB, handle string) (*payment.Payment, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errs.NewValueIsRequiredError("checkout_request_id")
	}

	var dto PaymentDTO
	err := db.First(&dto, "checkout_request_id = ?", handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("payment", handle)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}
