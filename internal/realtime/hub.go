// Package realtime fans committed events out to live tracking subscribers.
//
// Subscribers either follow one order, keyed by order number, or the global
// "all" channel used by dashboards. Every event reaches the subscribers of
// its order and every global subscriber. A subscriber whose Send fails is
// removed from the hub; other subscribers are unaffected.
package realtime

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const (
	ScopeOrder = "order"
	ScopeAll   = "all"

	publishStripes = 64
)

// Subscriber is one live connection. Send must be safe for concurrent use
// and implementations must be comparable, usually a pointer.
type Subscriber interface {
	Send(ctx context.Context, evt events.Event) error
}

// SnapshotFunc renders the current_status event for an order.
type SnapshotFunc func(ctx context.Context, orderNumber string) (events.Event, error)

// Metrics receives subscriber bookkeeping. *metrics.Collector implements it.
type Metrics interface {
	SubscribersChanged(scope string, delta int)
	SubscriberPruned()
}

type Hub struct {
	mu      sync.RWMutex
	byOrder map[string]map[Subscriber]struct{}
	all     map[Subscriber]struct{}
	scopeOf map[Subscriber]string

	// Publishing for one order is serialized so its subscribers observe
	// events in publish order. Orders share stripes by hash.
	stripes [publishStripes]sync.Mutex

	snapshot SnapshotFunc
	metrics  Metrics
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Hub)

func WithSnapshots(fn SnapshotFunc) Option { return func(h *Hub) { h.snapshot = fn } }

func WithMetrics(m Metrics) Option { return func(h *Hub) { h.metrics = m } }

func WithClock(now func() time.Time) Option { return func(h *Hub) { h.now = now } }

func NewHub(log *zap.Logger, opts ...Option) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		byOrder: make(map[string]map[Subscriber]struct{}),
		all:     make(map[Subscriber]struct{}),
		scopeOf: make(map[Subscriber]string),
		metrics: nopMetrics{},
		log:     log.With(zap.String("component", "realtime_hub")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers sub for orderNumber, or for every order when
// orderNumber is empty, and greets it with a connected message. A tracking
// subscriber of an order that already has a delivery also receives a
// current_status snapshot. If the greeting cannot be sent the subscriber is
// not kept. No published event reaches sub before its greeting.
func (h *Hub) Subscribe(ctx context.Context, sub Subscriber, orderNumber string) error {
	if sub == nil {
		return errs.NewValueIsRequiredError("subscriber")
	}

	unlock := h.lockStripes(orderNumber)
	defer unlock()

	h.add(sub, orderNumber)

	connected := events.Event{Type: events.Connected, OrderNumber: orderNumber, Timestamp: h.now().UTC()}
	if err := sub.Send(ctx, connected); err != nil {
		h.Unsubscribe(sub)
		return err
	}

	if orderNumber == "" || h.snapshot == nil {
		return nil
	}

	snap, err := h.snapshot(ctx, orderNumber)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return nil
	case err != nil:
		h.log.Warn("tracking snapshot failed", zap.String("order_number", orderNumber), zap.Error(err))
		return nil
	case snap.DeliveryID == "":
		return nil
	}

	if err := sub.Send(ctx, snap); err != nil {
		h.Unsubscribe(sub)
		return err
	}
	return nil
}

// Unsubscribe removes sub from every registry. Unknown subscribers are ignored.
func (h *Hub) Unsubscribe(sub Subscriber) {
	h.remove(sub)
}

// Publish delivers each event to the subscribers of its order and to the
// global channel. It never fails; broken subscribers are pruned.
func (h *Hub) Publish(ctx context.Context, evts ...events.Event) {
	for _, evt := range evts {
		h.publish(ctx, evt)
	}
}

// Count reports live subscribers for orderNumber, or global subscribers when
// orderNumber is empty.
func (h *Hub) Count(orderNumber string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if orderNumber == "" {
		return len(h.all)
	}
	return len(h.byOrder[orderNumber])
}

func (h *Hub) publish(ctx context.Context, evt events.Event) {
	stripe := &h.stripes[stripeFor(evt.OrderNumber)]
	stripe.Lock()
	defer stripe.Unlock()

	for _, sub := range h.recipients(evt.OrderNumber) {
		if err := sub.Send(ctx, evt); err != nil {
			if h.remove(sub) {
				h.metrics.SubscriberPruned()
				h.log.Debug("pruned subscriber after failed send",
					zap.String("order_number", evt.OrderNumber),
					zap.String("event", string(evt.Type)),
					zap.Error(err))
			}
		}
	}
}

// recipients copies the target set so sends happen without holding mu.
func (h *Hub) recipients(orderNumber string) []Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Subscriber, 0, len(h.all)+len(h.byOrder[orderNumber]))
	if orderNumber != "" {
		for sub := range h.byOrder[orderNumber] {
			out = append(out, sub)
		}
	}
	for sub := range h.all {
		out = append(out, sub)
	}
	return out
}

func (h *Hub) add(sub Subscriber, orderNumber string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.scopeOf[sub]; ok {
		return
	}
	h.scopeOf[sub] = orderNumber

	if orderNumber == "" {
		h.all[sub] = struct{}{}
		h.metrics.SubscribersChanged(ScopeAll, 1)
		return
	}

	set, ok := h.byOrder[orderNumber]
	if !ok {
		set = make(map[Subscriber]struct{})
		h.byOrder[orderNumber] = set
	}
	set[sub] = struct{}{}
	h.metrics.SubscribersChanged(ScopeOrder, 1)
}

// remove reports whether sub was registered.
func (h *Hub) remove(sub Subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	orderNumber, ok := h.scopeOf[sub]
	if !ok {
		return false
	}
	delete(h.scopeOf, sub)

	if orderNumber == "" {
		delete(h.all, sub)
		h.metrics.SubscribersChanged(ScopeAll, -1)
		return true
	}

	set := h.byOrder[orderNumber]
	delete(set, sub)
	if len(set) == 0 {
		delete(h.byOrder, orderNumber)
	}
	h.metrics.SubscribersChanged(ScopeOrder, -1)
	return true
}

// lockStripes holds the publish stripe of orderNumber, or every stripe for a
// global subscriber. Stripes are taken in index order; publish holds one.
func (h *Hub) lockStripes(orderNumber string) func() {
	if orderNumber != "" {
		stripe := &h.stripes[stripeFor(orderNumber)]
		stripe.Lock()
		return stripe.Unlock
	}
	for i := range h.stripes {
		h.stripes[i].Lock()
	}
	return func() {
		for i := range h.stripes {
			h.stripes[i].Unlock()
		}
	}
}

func stripeFor(orderNumber string) uint32 {
	f := fnv.New32a()
	_, _ = f.Write([]byte(orderNumber))
	return f.Sum32() % publishStripes
}

type nopMetrics struct{}

func (nopMetrics) SubscribersChanged(string, int) {}
func (nopMetrics) SubscriberPruned()              {}
