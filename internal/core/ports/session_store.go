package ports

import (
	"context"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
)

// SessionStore keeps opaque driver bearer tokens.
type SessionStore interface {
	Create(ctx context.Context, driverID kernel.UUID, ttl time.Duration) (string, error)
	// Resolve returns errs.ErrObjectNotFound for unknown or expired tokens.
	Resolve(ctx context.Context, token string) (kernel.UUID, error)
	Revoke(ctx context.Context, token string) error
}
