package metrics

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
)

// EventCounter is an event sink that counts domain milestones. Wire it next
// to the realtime hub in the publisher fan-out.
type EventCounter struct {
	c *Collector
}

func (c *Collector) Events() EventCounter {
	return EventCounter{c: c}
}

func (ec EventCounter) Publish(_ context.Context, evts ...events.Event) {
	for _, e := range evts {
		if e.Type == events.DeliveryCompleted {
			ec.c.DeliveryCompleted()
		}
	}
}
