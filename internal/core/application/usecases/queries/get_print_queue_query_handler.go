package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
)

type GetPrintQueueQueryHandler struct {
	db *gorm.DB
}

func NewGetPrintQueueQueryHandler(db *gorm.DB) GetPrintQueueQueryHandler {
	return GetPrintQueueQueryHandler{db: db}
}

func (h GetPrintQueueQueryHandler) Handle(ctx context.Context, query GetPrintQueueQuery) ([]PrintQueueEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			j.id, o.number, o.customer_name, j.job_handle,
			j.backend, j.copies, j.status, j.started_at
		FROM print_jobs j
		JOIN orders o ON o.id = j.order_id
		WHERE j.status IN ('queued', 'printing')
		ORDER BY j.started_at
		LIMIT ?
	`, query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]PrintQueueEntry, 0)
	for rows.Next() {
		var e PrintQueueEntry
		var id uuid.UUID
		if err = rows.Scan(
			&id, &e.OrderNumber, &e.CustomerName, &e.JobHandle,
			&e.Backend, &e.Copies, &e.Status, &e.StartedAt,
		); err != nil {
			return nil, err
		}
		if e.JobID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		e.StartedAt = e.StartedAt.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
