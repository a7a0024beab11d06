package kernel

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// ErrUUIDIsNotConstructed is returned by Validate for the nil identifier.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("identifier")

// UUID identifies orders, items, payments and print jobs. The zero value is
// not a valid identifier.
type UUID struct {
	id uuid.UUID
}

func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses route and query parameters.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("parse uuid %q: %w", s, err)
	}
	return UUIDFromGoogle(id)
}

// UUIDFromGoogle rehydrates an identifier read from a uuid column.
func UUIDFromGoogle(id uuid.UUID) (UUID, error) {
	u := UUID{id: id}
	if err := u.Validate(); err != nil {
		return UUID{}, err
	}
	return u, nil
}

// MustUUIDFromString is for literals in fixtures.
func MustUUIDFromString(s string) UUID {
	u, err := UUIDFromString(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u UUID) String() string { return u.id.String() }

// Bytes exposes the column value used by the gorm repositories.
func (u UUID) Bytes() uuid.UUID { return u.id }

func (u UUID) IsEqual(other UUID) bool { return u.id == other.id }

func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
