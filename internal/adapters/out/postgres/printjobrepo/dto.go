// Package printjobrepo persists print jobs submitted to a print backend.
package printjobrepo

import (
	"time"

	"github.com/google/uuid"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
)

type PrintJobDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderItemID  uuid.UUID `gorm:"type:uuid;not null;index"`
	JobHandle    string    `gorm:"type:varchar(100);not null"`
	Backend      string    `gorm:"type:varchar(20);not null"`
	Copies       int       `gorm:"not null"`
	Status       string    `gorm:"type:varchar(20);not null;index"`
	StartedAt    time.Time `gorm:"not null"`
	CompletedAt  *time.Time
	ErrorMessage *string `gorm:"type:text"`
}

func (PrintJobDTO) TableName() string {
	return "print_jobs"
}

func fromDomain(j *printjob.PrintJob) PrintJobDTO {
	return PrintJobDTO{
		ID:           j.ID().Bytes(),
		OrderID:      j.OrderID().Bytes(),
		OrderItemID:  j.OrderItemID().Bytes(),
		JobHandle:    j.Handle(),
		Backend:      j.Backend(),
		Copies:       j.Copies(),
		Status:       j.Status().String(),
		StartedAt:    j.StartedAt(),
		CompletedAt:  j.CompletedAt(),
		ErrorMessage: j.ErrorMessage(),
	}
}

func toDomain(dto PrintJobDTO) (*printjob.PrintJob, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	itemID, err := kernel.UUIDFromGoogle(dto.OrderItemID)
	if err != nil {
		return nil, err
	}
	status, err := printjob.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var completedAt *time.Time
	if dto.CompletedAt != nil {
		t := dto.CompletedAt.UTC()
		completedAt = &t
	}

	return printjob.RestorePrintJob(printjob.State{
		ID:           id,
		OrderID:      orderID,
		OrderItemID:  itemID,
		Handle:       dto.JobHandle,
		Backend:      dto.Backend,
		Copies:       dto.Copies,
		Status:       status,
		StartedAt:    dto.StartedAt.UTC(),
		CompletedAt:  completedAt,
		ErrorMessage: dto.ErrorMessage,
	})
}
