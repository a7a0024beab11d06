// Package events defines the state change notifications emitted by the
// fulfillment aggregates and fanned out to live subscribers.
package events

import (
	"slices"
	"sync/atomic"
	"time"
)

type Type string

const (
	Connected         Type = "connected"
	CurrentStatus     Type = "current_status"
	LocationUpdate    Type = "location_update"
	StatusUpdate      Type = "status_update"
	DeliveryAssigned  Type = "delivery_assigned"
	DeliveryStarted   Type = "delivery_started"
	DeliveryCompleted Type = "delivery_completed"
	PaymentConfirmed  Type = "payment_confirmed"
	Pong              Type = "pong"
)

// DriverSnapshot is the driver view embedded in delivery events.
type DriverSnapshot struct {
	Name      string
	Phone     string
	Vehicle   *string
	Lat       *float64
	Lng       *float64
	LastFixAt *time.Time
}

// Event is a single notification. OrderNumber scopes it for subscribers that
// track one order; events without an order number only reach the global channel.
type Event struct {
	Type        Type
	OrderNumber string
	DeliveryID  string
	Status      string
	Lat         *float64
	Lng         *float64
	DriverName  string
	Driver      *DriverSnapshot
	Receipt     string
	AssignedAt  *time.Time
	StartedAt   *time.Time
	DeliveredAt *time.Time
	Timestamp   time.Time

	seq uint64
}

var sequence atomic.Uint64

// Recorder collects events raised by an aggregate until they are pulled by
// the unit of work after commit. Aggregates embed it.
type Recorder struct {
	pending []Event
}

// Record stamps e with a process wide sequence number so events pulled from
// several aggregates can be replayed in the order they were raised.
func (r *Recorder) Record(e Event) {
	e.seq = sequence.Add(1)
	r.pending = append(r.pending, e)
}

// PullEvents returns and clears the recorded events.
func (r *Recorder) PullEvents() []Event {
	out := r.pending
	r.pending = nil
	return out
}

// Source is implemented by every aggregate that embeds a Recorder.
type Source interface {
	PullEvents() []Event
}

// InRaisedOrder sorts events by the order they were recorded in.
func InRaisedOrder(evts []Event) []Event {
	slices.SortStableFunc(evts, func(a, b Event) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		default:
			return 0
		}
	})
	return evts
}
