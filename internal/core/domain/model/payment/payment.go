package payment

import (
	"errors"
	"strings"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const MethodMpesa = "mpesa"

var ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")

// Payment is one push payment attempt for an order. An order may have many
// attempts but at most one of them reaches Completed. The attempt is
// correlated with gateway callbacks through its handle (the checkout request id).
type Payment struct {
	id                kernel.UUID
	orderID           kernel.UUID
	handle            string
	merchantRequestID *string
	method            string
	phone             kernel.Phone
	amount            int64
	status            Status
	receipt           *string
	failureReason     *string
	pollAttempts      int
	createdAt         time.Time
	completedAt       *time.Time

	isConstructed bool
}

func NewPayment(
	id kernel.UUID,
	orderID kernel.UUID,
	handle string,
	merchantRequestID *string,
	method string,
	phone kernel.Phone,
	amount int64,
	now time.Time,
) (*Payment, error) {
	p := &Payment{
		merchantRequestID: merchantRequestID,
		method:            method,
		status:            Pending,
		createdAt:         now.UTC(),
		isConstructed:     true,
	}

	var amountErr error
	if amount <= 0 {
		amountErr = errs.NewValueIsInvalidError("amount")
	}
	var handleErr error
	if strings.TrimSpace(handle) == "" {
		handleErr = errs.NewValueIsRequiredError("checkout_request_id")
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		phone.Validate(),
		handleErr,
		amountErr,
	); err != nil {
		return nil, err
	}

	p.id = id
	p.orderID = orderID
	p.handle = handle
	p.phone = phone
	p.amount = amount
	if p.method == "" {
		p.method = MethodMpesa
	}

	return p, nil
}

// State is the persisted shape of a payment.
type State struct {
	ID                kernel.UUID
	OrderID           kernel.UUID
	Handle            string
	MerchantRequestID *string
	Method            string
	Phone             kernel.Phone
	Amount            int64
	Status            Status
	Receipt           *string
	FailureReason     *string
	PollAttempts      int
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

func RestorePayment(s State) (*Payment, error) {
	p, err := NewPayment(s.ID, s.OrderID, s.Handle, s.MerchantRequestID, s.Method, s.Phone, s.Amount, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if s.Status == Unknown {
		return nil, errs.NewValueIsInvalidError("payment status")
	}

	p.status = s.Status
	p.receipt = s.Receipt
	p.failureReason = s.FailureReason
	p.pollAttempts = s.PollAttempts
	p.createdAt = s.CreatedAt
	p.completedAt = s.CompletedAt
	return p, nil
}

func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

func (p *Payment) ID() kernel.UUID            { return p.id }
func (p *Payment) OrderID() kernel.UUID       { return p.orderID }
func (p *Payment) Handle() string             { return p.handle }
func (p *Payment) MerchantRequestID() *string { return p.merchantRequestID }
func (p *Payment) Method() string             { return p.method }
func (p *Payment) Phone() kernel.Phone        { return p.phone }
func (p *Payment) Amount() int64              { return p.amount }
func (p *Payment) Status() Status             { return p.status }
func (p *Payment) Receipt() *string           { return p.receipt }
func (p *Payment) FailureReason() *string     { return p.failureReason }
func (p *Payment) PollAttempts() int          { return p.pollAttempts }
func (p *Payment) CreatedAt() time.Time       { return p.createdAt }
func (p *Payment) CompletedAt() *time.Time    { return p.completedAt }

// RecordPollAttempt counts an inconclusive status query and returns the new total.
func (p *Payment) RecordPollAttempt() int {
	p.pollAttempts++
	return p.pollAttempts
}

// Expire fails a payment whose confirmation never arrived. It is a no-op for
// payments that already reached a terminal status.
func (p *Payment) Expire(now time.Time) bool {
	if p.status != Pending {
		return false
	}
	p.fail(ReasonTimedOut, now)
	return true
}

// timedOut reports a payment failed by Expire rather than by the gateway.
func (p *Payment) timedOut() bool {
	return p.status == Failed && p.failureReason != nil && *p.failureReason == ReasonTimedOut
}

func (p *Payment) reopen() {
	p.status = Pending
	p.failureReason = nil
	p.completedAt = nil
}

func (p *Payment) complete(receipt string, now time.Time) {
	p.status = Completed
	if r := strings.TrimSpace(receipt); r != "" {
		p.receipt = &r
	}
	t := now.UTC()
	p.completedAt = &t
}

func (p *Payment) fail(reason string, now time.Time) {
	p.status = Failed
	if strings.TrimSpace(reason) == "" {
		reason = ReasonUnspecified
	}
	p.failureReason = &reason
	t := now.UTC()
	p.completedAt = &t
}
