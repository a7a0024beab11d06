package queries

import (
	"errors"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

const (
	DefaultPrintQueueLimit = 100
	MaxPrintQueueLimit     = 500
)

var ErrGetPrintQueueQueryIsNotConstructed = errors.New(
	"GetPrintQueueQuery must be created via NewGetPrintQueueQuery constructor",
)

// GetPrintQueueQuery lists jobs that are queued or still printing,
// oldest first.
type GetPrintQueueQuery struct {
	limit int
	guard guard.ConstructorGuard
}

// NewGetPrintQueueQuery uses DefaultPrintQueueLimit when limit is zero.
func NewGetPrintQueueQuery(limit int) (GetPrintQueueQuery, error) {
	if limit == 0 {
		limit = DefaultPrintQueueLimit
	}
	if limit < 1 || limit > MaxPrintQueueLimit {
		return GetPrintQueueQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPrintQueueLimit)
	}
	return GetPrintQueueQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPrintQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetPrintQueueQueryIsNotConstructed)
}

type PrintQueueEntry struct {
	JobID        kernel.UUID
	OrderNumber  string
	CustomerName string
	JobHandle    string
	Backend      string
	Copies       int
	Status       string
	StartedAt    time.Time
}
