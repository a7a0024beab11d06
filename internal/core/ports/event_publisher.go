package ports

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
)

// EventPublisher delivers committed events to live subscribers and mirrors.
// Delivery is best effort: implementations log failures instead of
// returning them so that a committed mutation is never reported as failed.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.Event)
}
