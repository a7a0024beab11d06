package printjobrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormPrintJobRepository implements PrintJobRepository using GORM.
type GormPrintJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormPrintJobRepository(db *gorm.DB, tracker aggregateTracker) *GormPrintJobRepository {
	return &GormPrintJobRepository{db: db, tracker: tracker}
}

func (r *GormPrintJobRepository) Add(ctx context.Context, j *printjob.PrintJob) error {
	if err := j.Validate(); err != nil {
		return err
	}

	dto := fromDomain(j)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(j.ID(), j)
	return nil
}

func (r *GormPrintJobRepository) Update(ctx context.Context, j *printjob.PrintJob) error {
	if err := j.Validate(); err != nil {
		return err
	}

	dto := fromDomain(j)
	result := r.db.WithContext(ctx).Model(&PrintJobDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("print job", j.ID().String())
	}

	r.tracker.TrackAggregate(j.ID(), j)
	return nil
}

func (r *GormPrintJobRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*printjob.PrintJob, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.list(r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Order("started_at"))
}

// ListPrinting returns jobs still waiting on the spooler, oldest first.
func (r *GormPrintJobRepository) ListPrinting(ctx context.Context, limit int) ([]*printjob.PrintJob, error) {
	return r.list(r.db.WithContext(ctx).
		Where("status = ?", printjob.Printing.String()).
		Order("started_at").
		Limit(limit))
}

func (r *GormPrintJobRepository) list(db *gorm.DB) ([]*printjob.PrintJob, error) {
	var dtos []PrintJobDTO
	if err := db.Find(&dtos).Error; err != nil {
		return nil, err
	}

	jobs := make([]*printjob.PrintJob, 0, len(dtos))
	for _, dto := range dtos {
		j, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}
