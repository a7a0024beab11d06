package payment

import (
	"fmt"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
)

const (
	ReasonAlreadyPaid = "order already paid"
	ReasonTimedOut    = "confirmation timed out"
	ReasonUnspecified = "payment failed"
)

// Result is the terminal or non terminal verdict of the gateway.
type Result int

const (
	ResultPending Result = iota
	ResultSucceeded
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultSucceeded:
		return "succeeded"
	case ResultFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Outcome is what the gateway reported for a push request, either through a
// callback or a status query.
type Outcome struct {
	Handle  string
	Result  Result
	Receipt string
	Reason  string
	// Amount is the amount actually paid, when the gateway reports one.
	Amount *int64
}

// Effect is a side effect the caller runs after the reconciliation commits.
type Effect int

const (
	EffectDispatchPrint Effect = iota + 1
)

// Reconciliation describes what Reconcile changed.
type Reconciliation struct {
	// Applied is false when the outcome was a duplicate or still pending;
	// nothing was mutated and nothing must be persisted or published.
	Applied bool
	Result  Result
	Effects []Effect
}

func (r Reconciliation) Has(e Effect) bool {
	for _, eff := range r.Effects {
		if eff == e {
			return true
		}
	}
	return false
}

// Reconcile applies a gateway outcome to a payment and its order. It is the
// idempotency boundary for callbacks and polls: the same outcome applied any
// number of times leaves the aggregate exactly as applying it once.
//
//   - success for a payment failed by ReasonTimedOut on an unpaid order: the
//     payment is reopened and the success is applied
//   - payment already completed or failed: no-op
//   - outcome still pending: no-op
//   - failure: payment failed with the gateway reason, order untouched
//   - success on an order that is already paid: this attempt is failed with
//     ReasonAlreadyPaid so at most one payment per order completes
//   - success with a short amount: payment failed, order untouched
//   - success: payment completed, order confirmed (paid, processing, paidAt)
//     and EffectDispatchPrint requested unless the order was cancelled
func Reconcile(p *Payment, o *order.Order, outcome Outcome, now time.Time) (Reconciliation, error) {
	if err := p.Validate(); err != nil {
		return Reconciliation{}, err
	}
	if err := o.Validate(); err != nil {
		return Reconciliation{}, err
	}
	if !p.orderID.IsEqual(o.ID()) {
		return Reconciliation{}, fmt.Errorf("payment %s does not belong to order %s", p.id, o.Number())
	}

	if outcome.Result == ResultSucceeded && p.timedOut() && !o.IsPaid() {
		p.reopen()
	}

	if p.status != Pending || outcome.Result == ResultPending {
		return Reconciliation{Result: outcome.Result}, nil
	}

	if outcome.Result == ResultFailed {
		p.fail(outcome.Reason, now)
		return Reconciliation{Applied: true, Result: ResultFailed}, nil
	}

	if o.IsPaid() {
		p.fail(ReasonAlreadyPaid, now)
		return Reconciliation{Applied: true, Result: ResultFailed}, nil
	}

	if outcome.Amount != nil && *outcome.Amount < p.amount {
		p.fail(fmt.Sprintf("amount mismatch: paid %d, expected %d", *outcome.Amount, p.amount), now)
		return Reconciliation{Applied: true, Result: ResultFailed}, nil
	}

	reference := outcome.Receipt
	if reference == "" {
		reference = p.handle
	}

	p.complete(outcome.Receipt, now)
	if err := o.ConfirmPayment(p.method, reference, now); err != nil {
		return Reconciliation{}, err
	}

	rec := Reconciliation{Applied: true, Result: ResultSucceeded}
	if o.Status() != order.Cancelled {
		rec.Effects = append(rec.Effects, EffectDispatchPrint)
	}
	return rec, nil
}
