package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const ManualPaymentMethod = "manual"

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrAlreadyPaid rejects a second payment for an order whose money was received.
	ErrAlreadyPaid = errs.NewConflictError("order", "is already paid")

	// ErrInvalidOrderState rejects a domain action the current status does not allow.
	ErrInvalidOrderState = errs.NewConflictError("order", "is not in a state that allows this action")

	// ErrItemNotFound is returned when an item id does not belong to the order.
	ErrItemNotFound = errs.NewObjectNotFoundError("order item", "not part of this order")
)

// Order is the aggregate root of a print order. It owns its items and is the
// unit of atomicity for every fulfillment step: payment, printing and
// delivery all mutate the order through the methods below.
//
// Invariants:
//   - total == subtotal + deliveryFee - discount after every mutation
//   - status only moves along the transition table (see Status)
//   - each milestone timestamp is set at most once and never cleared
//   - paymentStatus never goes back from paid to pending
type Order struct {
	events.Recorder

	id       kernel.UUID
	number   kernel.OrderNumber
	customer Customer
	address  Address
	items    []*Item

	subtotal    int64
	deliveryFee int64
	discount    int64
	total       int64

	status           Status
	paymentStatus    PaymentStatus
	paymentMethod    *string
	paymentReference *string
	deliveryNotes    *string
	trackingNumber   *string

	createdAt   time.Time
	paidAt      *time.Time
	printedAt   *time.Time
	shippedAt   *time.Time
	deliveredAt *time.Time

	version       int
	isConstructed bool
}

// NewOrder creates a pending, unpaid order. Prices are taken from the items;
// the delivery fee and discount come from the caller (see PriceList).
//
// Example:
//
//	quote, _ := order.DefaultPriceList().Quote(25, "nairobi")
//	item, _ := order.NewItem(kernel.NewUUID(), 25, quote.UnitPrice, artifacts)
//	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewOrderNumber(now), customer, address,
//	    []*order.Item{item}, quote.DeliveryFee, 0, now)
func NewOrder(
	id kernel.UUID,
	number kernel.OrderNumber,
	customer Customer,
	address Address,
	items []*Item,
	deliveryFee int64,
	discount int64,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomer(customer),
		o.setAddress(address),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	if err := o.setAmounts(deliveryFee, discount); err != nil {
		return nil, err
	}

	return o, nil
}

// State is the full persisted shape of an order, used only to rehydrate it.
type State struct {
	ID               kernel.UUID
	Number           kernel.OrderNumber
	Customer         Customer
	Address          Address
	Items            []*Item
	Subtotal         int64
	DeliveryFee      int64
	Discount         int64
	Total            int64
	Status           Status
	PaymentStatus    PaymentStatus
	PaymentMethod    *string
	PaymentReference *string
	DeliveryNotes    *string
	TrackingNumber   *string
	CreatedAt        time.Time
	PaidAt           *time.Time
	PrintedAt        *time.Time
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	Version          int
}

// RestoreOrder rebuilds an order from storage and re-checks its invariants.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setCustomer(s.Customer),
		o.setAddress(s.Address),
		o.setItems(s.Items),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if s.Subtotal != o.subtotal {
		return nil, errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("%d does not match item totals %d", s.Subtotal, o.subtotal))
	}
	if err := o.setAmounts(s.DeliveryFee, s.Discount); err != nil {
		return nil, err
	}
	if s.Total != o.total {
		return nil, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("%d is not subtotal + delivery fee - discount (%d)", s.Total, o.total))
	}

	o.status = s.Status
	o.paymentStatus = s.PaymentStatus
	o.paymentMethod = s.PaymentMethod
	o.paymentReference = s.PaymentReference
	o.deliveryNotes = s.DeliveryNotes
	o.trackingNumber = s.TrackingNumber
	o.createdAt = s.CreatedAt
	o.paidAt = s.PaidAt
	o.printedAt = s.PrintedAt
	o.shippedAt = s.ShippedAt
	o.deliveredAt = s.DeliveredAt
	o.version = s.Version

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) Number() kernel.OrderNumber   { return o.number }
func (o *Order) Customer() Customer           { return o.customer }
func (o *Order) Address() Address             { return o.address }
func (o *Order) Subtotal() int64              { return o.subtotal }
func (o *Order) DeliveryFee() int64           { return o.deliveryFee }
func (o *Order) Discount() int64              { return o.discount }
func (o *Order) Total() int64                 { return o.total }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) PaymentMethod() *string       { return o.paymentMethod }
func (o *Order) PaymentReference() *string    { return o.paymentReference }
func (o *Order) DeliveryNotes() *string       { return o.deliveryNotes }
func (o *Order) TrackingNumber() *string      { return o.trackingNumber }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) PaidAt() *time.Time           { return o.paidAt }
func (o *Order) PrintedAt() *time.Time        { return o.printedAt }
func (o *Order) ShippedAt() *time.Time        { return o.shippedAt }
func (o *Order) DeliveredAt() *time.Time      { return o.deliveredAt }
func (o *Order) IsPaid() bool                 { return o.paymentStatus == PaymentPaid }

// Items returns a copy of the item slice; the items themselves stay owned by the order.
func (o *Order) Items() []*Item {
	return append([]*Item(nil), o.items...)
}

// Item looks up an item by id.
func (o *Order) Item(id kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.id.IsEqual(id) {
			return item, nil
		}
	}
	return nil, ErrItemNotFound
}

// Version is the optimistic concurrency token of the persisted row.
func (o *Order) Version() int {
	return o.version
}

// BumpVersion is called by the persistence layer after a successful write.
func (o *Order) BumpVersion() {
	o.version++
}

// ConfirmPayment applies a successful payment: paymentStatus becomes paid,
// the receipt is stored, paidAt is set once and the order advances
// pending -> paid -> processing. A cancelled order keeps its status but the
// money is still recorded.
//
// Returns ErrAlreadyPaid if the order was already paid; nothing changes in that case.
func (o *Order) ConfirmPayment(method, reference string, now time.Time) error {
	if o.paymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}

	o.paymentStatus = PaymentPaid
	o.paymentMethod = optionalString(method)
	o.paymentReference = optionalString(reference)
	setOnce(&o.paidAt, now)

	if o.status != Cancelled {
		if err := o.advanceTo(Processing, now); err != nil {
			return err
		}
	}

	o.Record(events.Event{
		Type:        events.PaymentConfirmed,
		OrderNumber: o.number.String(),
		Status:      o.status.String(),
		Receipt:     reference,
		Timestamp:   now.UTC(),
	})

	return nil
}

// CanDispatchPrint reports ErrInvalidOrderState unless the order is paid and
// has not yet been sent to the printer.
func (o *Order) CanDispatchPrint() error {
	if o.paymentStatus != PaymentPaid {
		return fmt.Errorf("%w: payment is %s", ErrInvalidOrderState, o.paymentStatus)
	}
	if o.status != Paid && o.status != Processing {
		return fmt.Errorf("%w: status is %s", ErrInvalidOrderState, o.status)
	}
	if len(o.items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalidOrderState)
	}
	return nil
}

// MarkItemPrinting records that an asynchronous spooler accepted the item.
// The order advances to printing.
func (o *Order) MarkItemPrinting(itemID kernel.UUID, now time.Time) error {
	item, err := o.Item(itemID)
	if err != nil {
		return err
	}

	item.markPrinting()
	return o.advanceTo(Printing, now)
}

// MarkItemPrinted records a finished print of the whole item quantity. Once
// every item is fully printed the order advances to printed and printedAt is
// set. A cancelled or already shipped order keeps its status.
func (o *Order) MarkItemPrinted(itemID kernel.UUID, now time.Time) error {
	item, err := o.Item(itemID)
	if err != nil {
		return err
	}

	item.markPrinted()
	if o.status == Cancelled {
		return nil
	}

	for _, it := range o.items {
		if !it.IsFullyPrinted() {
			return o.advanceTo(Printing, now)
		}
	}
	return o.advanceTo(Printed, now)
}

// ShipForDelivery is invoked when a driver is assigned. Only paid,
// processing, printed and shipped orders can be handed to a driver; the
// status moves to shipped unless it is already there.
func (o *Order) ShipForDelivery(now time.Time) error {
	switch o.status { //nolint:exhaustive // all other statuses are rejected
	case Paid, Processing, Printed, Shipped:
	default:
		return fmt.Errorf("%w: cannot assign a driver to a %s order", ErrInvalidOrderState, o.status)
	}

	return o.advanceTo(Shipped, now)
}

// MarkInTransit follows the driver starting the delivery.
func (o *Order) MarkInTransit(now time.Time) error {
	return o.advanceTo(InTransit, now)
}

// MarkDelivered follows the driver completing the delivery; deliveredAt is set once.
func (o *Order) MarkDelivered(now time.Time) error {
	return o.advanceTo(Delivered, now)
}

// ChangeStatus is the administrative single step move along the transition
// table. Requesting the current status is a no-op. Moving to paid records a
// manual payment so paymentStatus stays consistent with the status.
func (o *Order) ChangeStatus(target Status, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if target == o.status {
		return nil
	}
	if _, err := o.status.TransitionTo(target); err != nil {
		return err
	}

	if target == Paid && o.paymentStatus != PaymentPaid {
		o.paymentStatus = PaymentPaid
		o.paymentMethod = optionalString(ManualPaymentMethod)
	}

	o.apply(target, now)
	o.recordStatusUpdate(now)
	return nil
}

// Cancel moves any non terminal order to cancelled.
func (o *Order) Cancel(now time.Time) error {
	return o.ChangeStatus(Cancelled, now)
}

// SetTracking sets or clears the courier tracking code.
func (o *Order) SetTracking(tracking *string) {
	o.trackingNumber = optionalPtr(tracking)
}

// SetDeliveryNotes sets or clears free text notes for the driver.
func (o *Order) SetDeliveryNotes(notes *string) {
	o.deliveryNotes = optionalPtr(notes)
}

// advanceTo walks the order forward until it reaches target. A direct edge is
// taken when the table has one, otherwise the next milestone on the main path,
// so every intermediate milestone timestamp gets set. Targets at or behind
// the current status are a no-op, which makes repeated domain actions
// idempotent. A single status_update event is recorded for the final status.
func (o *Order) advanceTo(target Status, now time.Time) error {
	if o.status == target || o.status.IsAfter(target) {
		return nil
	}

	// every step on the main path is a legal edge, so only the starting
	// status can make the walk fail
	if o.status.IsTerminal() || o.status.Validate() != nil {
		return errs.NewInvalidTransitionError(o.status, target)
	}

	for o.status != target {
		next := target
		if !o.status.CanTransitionTo(target) {
			next = o.status.nextOnPath()
		}
		o.apply(next, now)
	}

	o.recordStatusUpdate(now)
	return nil
}

// apply sets the status and its milestone timestamp if unset.
func (o *Order) apply(s Status, now time.Time) {
	o.status = s

	switch s { //nolint:exhaustive // only milestones carry a timestamp
	case Paid:
		setOnce(&o.paidAt, now)
	case Printed:
		setOnce(&o.printedAt, now)
	case Shipped:
		setOnce(&o.shippedAt, now)
	case Delivered:
		setOnce(&o.deliveredAt, now)
	}
}

func (o *Order) recordStatusUpdate(now time.Time) {
	o.Record(events.Event{
		Type:        events.StatusUpdate,
		OrderNumber: o.number.String(),
		Status:      o.status.String(),
		Timestamp:   now.UTC(),
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(n kernel.OrderNumber) error {
	if err := n.Validate(); err != nil {
		return err
	}
	o.number = n
	return nil
}

func (o *Order) setCustomer(c Customer) error {
	if err := c.phone.Validate(); err != nil {
		return err
	}
	o.customer = c
	return nil
}

func (o *Order) setAddress(a Address) error {
	if a.street == "" {
		return errs.NewValueIsRequiredError("delivery_address")
	}
	o.address = a
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var subtotal int64
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		subtotal += item.totalPrice
	}

	o.items = items
	o.subtotal = subtotal
	return nil
}

// setAmounts must run after setItems, it relies on subtotal.
func (o *Order) setAmounts(deliveryFee, discount int64) error {
	if deliveryFee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery_fee", fmt.Errorf("%d is negative", deliveryFee))
	}
	if discount < 0 || discount > o.subtotal+deliveryFee {
		return errs.NewValueIsOutOfRangeError("discount", discount, 0, o.subtotal+deliveryFee)
	}

	o.deliveryFee = deliveryFee
	o.discount = discount
	o.total = o.subtotal + o.deliveryFee - o.discount
	return nil
}

func setOnce(field **time.Time, now time.Time) {
	if *field == nil {
		t := now.UTC()
		*field = &t
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optionalString(*s)
}
