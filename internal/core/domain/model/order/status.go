package order

import (
	"fmt"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	pending ──> paid ──┬──> processing ──┬──> printing ──> printed ──┐
//	                   │                 │                          │
//	                   └─────────────────┴──────────────────────────┴──> shipped ──> in_transit ──> delivered
//
// cancelled is reachable from every non-terminal state. delivered and
// cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota
	Pending
	Paid
	Processing
	Printing
	Printed
	Shipped
	InTransit
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Paid:       "paid",
		Processing: "processing",
		Printing:   "printing",
		Printed:    "printed",
		Shipped:    "shipped",
		InTransit:  "in_transit",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
	}
}

// getTransitions is the authoritative transition table.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:    {Paid, Cancelled},
		Paid:       {Processing, Shipped, Cancelled},
		Processing: {Printing, Shipped, Cancelled},
		Printing:   {Printed, Cancelled},
		Printed:    {Shipped, Cancelled},
		Shipped:    {InTransit, Cancelled},
		InTransit:  {Delivered, Cancelled},
	}
}

// ParseStatus converts the persisted/wire name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out of range values, e.g. from storage.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether next is directly reachable from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next if the table allows it and an
// errs.InvalidTransitionError otherwise.
func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewInvalidTransitionError(s, next)
	}
	return next, nil
}

// IsAfter orders statuses along the fulfillment path. Cancelled is not on
// the path and is never after or before anything.
func (s Status) IsAfter(other Status) bool {
	if s == Cancelled || other == Cancelled {
		return false
	}
	return s > other
}

// nextOnPath returns the following milestone on the main fulfillment path.
func (s Status) nextOnPath() Status {
	if s < Pending || s >= Delivered {
		return Unknown
	}
	return s + 1
}

// PaymentStatus tracks whether money for the order has been received.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
)

func (p PaymentStatus) String() string {
	switch p {
	case PaymentPending:
		return "pending"
	case PaymentPaid:
		return "paid"
	default:
		return "unknown"
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch s {
	case "pending":
		return PaymentPending, nil
	case "paid":
		return PaymentPaid, nil
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("payment_status", fmt.Errorf("%q is not a valid payment status", s))
}
