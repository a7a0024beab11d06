package ports

import (
	"context"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
)

type PaymentRepository interface {
	Add(ctx context.Context, p *payment.Payment) error
	Update(ctx context.Context, p *payment.Payment) error

	// GetByHandle finds the attempt correlated with a gateway handle.
	GetByHandle(ctx context.Context, handle string) (*payment.Payment, error)

	// GetByHandleForUpdate locks the payment row. Callers lock the owning
	// order first.
	GetByHandleForUpdate(ctx context.Context, handle string) (*payment.Payment, error)

	// ListPendingCreatedBefore returns up to limit pending attempts created
	// before the cutoff, oldest first.
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error)
}
