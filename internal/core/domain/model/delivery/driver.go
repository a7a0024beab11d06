package delivery

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

const (
	minPasswordLength = 4
	maxNameLength     = 100
)

// Domain errors for driver operations.
var (
	// ErrNameIsRequired is returned when attempting to create a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPasswordTooShort is returned for passwords below the minimum length.
	ErrPasswordTooShort = errs.NewValueIsOutOfRangeError("password length", "too short", minPasswordLength, 72)
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
	// ErrDriverInactive rejects assigning work to a deactivated driver.
	ErrDriverInactive = errs.NewConflictError("driver", "is inactive")
	// ErrDriverAccountInactive rejects a deactivated driver acting on their own behalf.
	ErrDriverAccountInactive = errs.NewForbiddenError("driver", "account is inactive")
)

// Driver is a delivery agent. It is a long lived aggregate referenced by
// deliveries, never owned by them.
//
// Key responsibilities:
//   - identity and contact (name, normalized phone) used for login and display
//   - credential check against a bcrypt hash; the plain password is never kept
//   - last known position, overwritten on every accepted GPS fix
//   - active flag gating assignment and login
//
// Example usage:
//
//	phone, _ := kernel.NewPhone("0722000111")
//	d, err := delivery.NewDriver(kernel.NewUUID(), "Peter Mwangi", phone, "s3cret", &vehicle, &plate, now)
//	if err != nil {
//	    // Handle construction error
//	}
type Driver struct {
	id           kernel.UUID
	name         string
	phone        kernel.Phone
	passwordHash string
	vehicleType  *string
	vehiclePlate *string
	isActive     bool
	lastPosition *kernel.Location
	lastFixAt    *time.Time
	createdAt    time.Time

	guard guard.ConstructorGuard
}

// NewDriver creates an active driver. All invalid arguments are reported together.
func NewDriver(
	id kernel.UUID,
	name string,
	phone kernel.Phone,
	password string,
	vehicleType *string,
	vehiclePlate *string,
	now time.Time,
) (*Driver, error) {
	d := &Driver{
		isActive:  true,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setPhone(phone),
		d.setPassword(password),
	); err != nil {
		return nil, err
	}

	d.vehicleType = trimmed(vehicleType)
	d.vehiclePlate = trimmed(vehiclePlate)
	return d, nil
}

// DriverState is the persisted shape of a driver.
type DriverState struct {
	ID           kernel.UUID
	Name         string
	Phone        kernel.Phone
	PasswordHash string
	VehicleType  *string
	VehiclePlate *string
	IsActive     bool
	LastPosition *kernel.Location
	LastFixAt    *time.Time
	CreatedAt    time.Time
}

// RestoreDriver reconstructs a Driver from storage without re-hashing the password.
func RestoreDriver(s DriverState) (*Driver, error) {
	d := &Driver{guard: guard.NewConstructorGuard()}

	var hashErr error
	if s.PasswordHash == "" {
		hashErr = errs.NewValueIsRequiredError("password_hash")
	}
	if err := errors.Join(d.setID(s.ID), d.setName(s.Name), d.setPhone(s.Phone), hashErr); err != nil {
		return nil, err
	}

	d.passwordHash = s.PasswordHash
	d.vehicleType = s.VehicleType
	d.vehiclePlate = s.VehiclePlate
	d.isActive = s.IsActive
	d.lastPosition = s.LastPosition
	d.lastFixAt = s.LastFixAt
	d.createdAt = s.CreatedAt
	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() kernel.UUID                { return d.id }
func (d *Driver) Name() string                   { return d.name }
func (d *Driver) Phone() kernel.Phone            { return d.phone }
func (d *Driver) PasswordHash() string           { return d.passwordHash }
func (d *Driver) VehicleType() *string           { return d.vehicleType }
func (d *Driver) VehiclePlate() *string          { return d.vehiclePlate }
func (d *Driver) IsActive() bool                 { return d.isActive }
func (d *Driver) LastPosition() *kernel.Location { return d.lastPosition }
func (d *Driver) LastFixAt() *time.Time          { return d.lastFixAt }
func (d *Driver) CreatedAt() time.Time           { return d.createdAt }

// CheckPassword compares plain against the stored bcrypt hash.
func (d *Driver) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(d.passwordHash), []byte(plain)) == nil
}

// EnsureCanWork returns ErrDriverInactive for deactivated drivers.
func (d *Driver) EnsureCanWork() error {
	if !d.isActive {
		return ErrDriverInactive
	}
	return nil
}

// Changes lists the optional fields of an administrative update; nil leaves a field untouched.
type Changes struct {
	Name         *string
	Phone        *kernel.Phone
	Password     *string
	VehicleType  *string
	VehiclePlate *string
	IsActive     *bool
}

// Update applies changes atomically: either every change is valid and
// applied, or none is.
func (d *Driver) Update(c Changes) error {
	next := *d

	var errList []error
	if c.Name != nil {
		errList = append(errList, next.setName(*c.Name))
	}
	if c.Phone != nil {
		errList = append(errList, next.setPhone(*c.Phone))
	}
	if c.Password != nil {
		errList = append(errList, next.setPassword(*c.Password))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	if c.VehicleType != nil {
		next.vehicleType = trimmed(c.VehicleType)
	}
	if c.VehiclePlate != nil {
		next.vehiclePlate = trimmed(c.VehiclePlate)
	}
	if c.IsActive != nil {
		next.isActive = *c.IsActive
	}

	*d = next
	return nil
}

// Deactivate stops the driver from logging in and from being assigned.
// Existing deliveries keep their driver.
func (d *Driver) Deactivate() {
	d.isActive = false
}

// Snapshot is the driver view embedded in delivery events.
func (d *Driver) Snapshot() *events.DriverSnapshot {
	snap := &events.DriverSnapshot{
		Name:      d.name,
		Phone:     d.phone.String(),
		Vehicle:   d.vehicleType,
		LastFixAt: d.lastFixAt,
	}
	if d.lastPosition != nil {
		lat, lng := d.lastPosition.Lat(), d.lastPosition.Lng()
		snap.Lat, snap.Lng = &lat, &lng
	}
	return snap
}

// RecordPosition overwrites the last known position.
func (d *Driver) RecordPosition(loc kernel.Location, at time.Time) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	t := at.UTC()
	d.lastPosition = &loc
	d.lastFixAt = &t
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	if l := len([]rune(name)); l > maxNameLength {
		return errs.NewValueIsOutOfRangeError("name length", l, 1, maxNameLength)
	}
	d.name = name
	return nil
}

func (d *Driver) setPhone(phone kernel.Phone) error {
	if err := phone.Validate(); err != nil {
		return err
	}
	d.phone = phone
	return nil
}

func (d *Driver) setPassword(plain string) error {
	if len(plain) < minPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("password", err)
	}
	d.passwordHash = string(hash)
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
