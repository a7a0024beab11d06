package delivery

import (
	"errors"
	"strings"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

var (
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

	// ErrNotAssignedDriver is returned when a driver acts on a delivery held by someone else.
	ErrNotAssignedDriver = errs.NewForbiddenError("delivery", "is not assigned to you")
	ErrAlreadyStarted    = errs.NewConflictError("delivery", "already started")
	ErrAlreadyCompleted  = errs.NewConflictError("delivery", "already completed")
	// ErrDeliveryClosed rejects location fixes once the delivery is no longer open.
	ErrDeliveryClosed = errs.NewConflictError("delivery", "cannot update location for completed delivery")
)

// Proof holds the optional artifacts captured at the door.
type Proof struct {
	Notes     *string
	Photo     *string
	Signature *string
}

// Delivery is the doorstep leg of an order. There is at most one per order;
// reassignment repoints the same delivery at another driver.
//
// Invariants:
//   - status only moves assigned -> in_transit -> delivered, except for a
//     reassignment which resets an open delivery to assigned
//   - startedAt and deliveredAt are set at most once
//   - only the assigned driver may start, track or complete it
type Delivery struct {
	events.Recorder

	id          kernel.UUID
	orderID     kernel.UUID
	orderNumber kernel.OrderNumber
	driverID    *kernel.UUID
	status      Status

	pickupAddress   *string
	pickupLocation  *kernel.Location
	dropoffAddress  string
	dropoffLocation *kernel.Location

	assignedAt  time.Time
	startedAt   *time.Time
	deliveredAt *time.Time

	notes      *string
	proofPhoto *string
	signature  *string

	isConstructed bool
}

// NewDelivery assigns a fresh delivery for the order to driver.
func NewDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	orderNumber kernel.OrderNumber,
	dropoffAddress string,
	driver *Driver,
	now time.Time,
) (*Delivery, error) {
	d := &Delivery{isConstructed: true}

	var addrErr error
	dropoffAddress = strings.TrimSpace(dropoffAddress)
	if dropoffAddress == "" {
		addrErr = errs.NewValueIsRequiredError("delivery address")
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		orderNumber.Validate(),
		addrErr,
		driver.Validate(),
	); err != nil {
		return nil, err
	}

	d.id = id
	d.orderID = orderID
	d.orderNumber = orderNumber
	d.dropoffAddress = dropoffAddress

	if err := d.assign(driver, now); err != nil {
		return nil, err
	}
	return d, nil
}

// State is the persisted shape of a delivery.
type State struct {
	ID              kernel.UUID
	OrderID         kernel.UUID
	OrderNumber     kernel.OrderNumber
	DriverID        *kernel.UUID
	Status          Status
	PickupAddress   *string
	PickupLocation  *kernel.Location
	DropoffAddress  string
	DropoffLocation *kernel.Location
	AssignedAt      time.Time
	StartedAt       *time.Time
	DeliveredAt     *time.Time
	Notes           *string
	ProofPhoto      *string
	Signature       *string
}

func RestoreDelivery(s State) (*Delivery, error) {
	if err := errors.Join(s.ID.Validate(), s.OrderID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	return &Delivery{
		id:              s.ID,
		orderID:         s.OrderID,
		orderNumber:     s.OrderNumber,
		driverID:        s.DriverID,
		status:          s.Status,
		pickupAddress:   s.PickupAddress,
		pickupLocation:  s.PickupLocation,
		dropoffAddress:  s.DropoffAddress,
		dropoffLocation: s.DropoffLocation,
		assignedAt:      s.AssignedAt,
		startedAt:       s.StartedAt,
		deliveredAt:     s.DeliveredAt,
		notes:           s.Notes,
		proofPhoto:      s.ProofPhoto,
		signature:       s.Signature,
		isConstructed:   true,
	}, nil
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) ID() kernel.UUID                   { return d.id }
func (d *Delivery) OrderID() kernel.UUID              { return d.orderID }
func (d *Delivery) OrderNumber() kernel.OrderNumber   { return d.orderNumber }
func (d *Delivery) DriverID() *kernel.UUID            { return d.driverID }
func (d *Delivery) Status() Status                    { return d.status }
func (d *Delivery) PickupAddress() *string            { return d.pickupAddress }
func (d *Delivery) PickupLocation() *kernel.Location  { return d.pickupLocation }
func (d *Delivery) DropoffAddress() string            { return d.dropoffAddress }
func (d *Delivery) DropoffLocation() *kernel.Location { return d.dropoffLocation }
func (d *Delivery) AssignedAt() time.Time             { return d.assignedAt }
func (d *Delivery) StartedAt() *time.Time             { return d.startedAt }
func (d *Delivery) DeliveredAt() *time.Time           { return d.deliveredAt }
func (d *Delivery) Notes() *string                    { return d.notes }
func (d *Delivery) ProofPhoto() *string               { return d.proofPhoto }
func (d *Delivery) Signature() *string                { return d.signature }

// IsAssignedTo reports whether driverID holds this delivery.
func (d *Delivery) IsAssignedTo(driverID kernel.UUID) bool {
	return d.driverID != nil && d.driverID.IsEqual(driverID)
}

// SetPickup records where the parcel is collected from.
func (d *Delivery) SetPickup(address *string, loc *kernel.Location) {
	d.pickupAddress = address
	d.pickupLocation = loc
}

func (d *Delivery) SetDropoffLocation(loc *kernel.Location) {
	d.dropoffLocation = loc
}

// Reassign repoints the delivery at driver and resets it to assigned.
// A delivered delivery cannot be reassigned.
func (d *Delivery) Reassign(driver *Driver, now time.Time) error {
	if d.status == Delivered {
		return ErrAlreadyCompleted
	}
	return d.assign(driver, now)
}

// Start puts the delivery in transit.
func (d *Delivery) Start(actor *Driver, now time.Time) error {
	if err := d.ensureActor(actor); err != nil {
		return err
	}
	switch d.status {
	case InTransit:
		return ErrAlreadyStarted
	case Delivered:
		return ErrAlreadyCompleted
	}

	t := now.UTC()
	d.status = InTransit
	if d.startedAt == nil {
		d.startedAt = &t
	}
	d.record(events.DeliveryStarted, actor, t)
	return nil
}

// RecordLocation accepts a GPS fix from the assigned driver, moves the
// driver's last known position and returns the history row to append.
func (d *Delivery) RecordLocation(actor *Driver, fixID kernel.UUID, loc kernel.Location, accuracy, speed *float64, now time.Time) (*LocationFix, error) {
	if err := d.ensureActor(actor); err != nil {
		return nil, err
	}
	if !d.status.IsOpen() {
		return nil, ErrDeliveryClosed
	}

	fix, err := NewLocationFix(fixID, d.id, loc, accuracy, speed, now)
	if err != nil {
		return nil, err
	}
	if err := actor.RecordPosition(loc, fix.RecordedAt()); err != nil {
		return nil, err
	}

	lat, lng := loc.Lat(), loc.Lng()
	d.Record(events.Event{
		Type:        events.LocationUpdate,
		OrderNumber: d.orderNumber.String(),
		DeliveryID:  d.id.String(),
		Lat:         &lat,
		Lng:         &lng,
		DriverName:  actor.Name(),
		Timestamp:   fix.RecordedAt(),
	})
	return fix, nil
}

// Complete marks the delivery delivered and stores the proof. The parent
// order is advanced by the caller in the same transaction.
func (d *Delivery) Complete(actor *Driver, proof Proof, now time.Time) error {
	if err := d.ensureActor(actor); err != nil {
		return err
	}
	if d.status == Delivered {
		return ErrAlreadyCompleted
	}

	t := now.UTC()
	d.status = Delivered
	if d.deliveredAt == nil {
		d.deliveredAt = &t
	}
	if proof.Notes != nil {
		d.notes = proof.Notes
	}
	if proof.Photo != nil {
		d.proofPhoto = proof.Photo
	}
	if proof.Signature != nil {
		d.signature = proof.Signature
	}
	d.record(events.DeliveryCompleted, actor, t)
	return nil
}

// Snapshot renders the current_status view sent to a new subscriber.
func (d *Delivery) Snapshot(driver *Driver, now time.Time) events.Event {
	return d.event(events.CurrentStatus, driver, now)
}

func (d *Delivery) assign(driver *Driver, now time.Time) error {
	if err := driver.Validate(); err != nil {
		return err
	}
	if err := driver.EnsureCanWork(); err != nil {
		return err
	}

	driverID := driver.ID()
	d.driverID = &driverID
	d.status = Assigned
	d.assignedAt = now.UTC()
	d.startedAt = nil
	d.record(events.DeliveryAssigned, driver, d.assignedAt)
	return nil
}

func (d *Delivery) ensureActor(actor *Driver) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !d.IsAssignedTo(actor.ID()) {
		return ErrNotAssignedDriver
	}
	return nil
}

func (d *Delivery) record(t events.Type, driver *Driver, now time.Time) {
	d.Record(d.event(t, driver, now))
}

func (d *Delivery) event(t events.Type, driver *Driver, now time.Time) events.Event {
	assignedAt := d.assignedAt
	e := events.Event{
		Type:        t,
		OrderNumber: d.orderNumber.String(),
		DeliveryID:  d.id.String(),
		Status:      d.status.String(),
		AssignedAt:  &assignedAt,
		StartedAt:   d.startedAt,
		DeliveredAt: d.deliveredAt,
		Timestamp:   now,
	}
	if driver != nil {
		e.DriverName = driver.Name()
		e.Driver = driver.Snapshot()
	}
	return e
}
