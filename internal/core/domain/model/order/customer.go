package order

import (
	"net/mail"
	"strings"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const (
	minNameLength    = 2
	maxNameLength    = 100
	minAddressLength = 10
	maxAddressLength = 500
)

// Customer is the guest who placed the order. Email is optional.
type Customer struct {
	name  string
	phone kernel.Phone
	email *string
}

func NewCustomer(name string, phone kernel.Phone, email *string) (Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, errs.NewValueIsRequiredError("name")
	}
	if l := len([]rune(name)); l < minNameLength || l > maxNameLength {
		return Customer{}, errs.NewValueIsOutOfRangeError("name length", l, minNameLength, maxNameLength)
	}
	if err := phone.Validate(); err != nil {
		return Customer{}, err
	}

	var normalizedEmail *string
	if email != nil && strings.TrimSpace(*email) != "" {
		e := strings.ToLower(strings.TrimSpace(*email))
		if _, err := mail.ParseAddress(e); err != nil {
			return Customer{}, errs.NewValueIsInvalidErrorWithCause("email", err)
		}
		normalizedEmail = &e
	}

	return Customer{name: name, phone: phone, email: normalizedEmail}, nil
}

func (c Customer) Name() string        { return c.name }
func (c Customer) Phone() kernel.Phone { return c.phone }
func (c Customer) Email() *string      { return c.email }

// Address is where the order is shipped. City selects the delivery fee.
type Address struct {
	street string
	city   string
}

func NewAddress(street, city string) (Address, error) {
	street = strings.TrimSpace(street)
	if street == "" {
		return Address{}, errs.NewValueIsRequiredError("delivery_address")
	}
	if l := len([]rune(street)); l < minAddressLength || l > maxAddressLength {
		return Address{}, errs.NewValueIsOutOfRangeError("delivery_address length", l, minAddressLength, maxAddressLength)
	}
	return Address{street: street, city: NormalizeCity(city)}, nil
}

func (a Address) Street() string { return a.street }
func (a Address) City() string   { return a.city }
