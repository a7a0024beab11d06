// Package publisher fans committed events out to every configured sink.
package publisher

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// Fanout delivers each batch to its sinks in registration order. The live
// hub comes first so subscribers are not delayed by slower mirrors.
type Fanout struct {
	sinks []ports.EventPublisher
}

func NewFanout(sinks ...ports.EventPublisher) *Fanout {
	f := &Fanout{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *Fanout) Publish(ctx context.Context, evts ...events.Event) {
	if len(evts) == 0 {
		return
	}
	for _, s := range f.sinks {
		s.Publish(ctx, evts...)
	}
}
