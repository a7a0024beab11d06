package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrAuthenticateDriverCommandIsNotConstructed = errors.New(
	"AuthenticateDriverCommand must be created via NewAuthenticateDriverCommand constructor",
)

// ErrInvalidCredentials is returned for an unknown phone or a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid phone or password")

// AuthenticateDriverCommand exchanges a driver's phone and password for a
// session token.
type AuthenticateDriverCommand struct {
	phone    kernel.Phone
	password string

	guard guard.ConstructorGuard
}

// NewAuthenticateDriverCommand reports a malformed phone as invalid
// credentials so the response does not reveal which field was wrong.
func NewAuthenticateDriverCommand(phone, password string) (AuthenticateDriverCommand, error) {
	msisdn, err := kernel.NewPhone(phone)
	if err != nil || password == "" {
		return AuthenticateDriverCommand{}, ErrInvalidCredentials
	}
	return AuthenticateDriverCommand{phone: msisdn, password: password, guard: guard.NewConstructorGuard()}, nil
}

func (c AuthenticateDriverCommand) Validate() error {
	return c.guard.Validate(ErrAuthenticateDriverCommandIsNotConstructed)
}

func (c AuthenticateDriverCommand) Phone() kernel.Phone { return c.phone }
func (c AuthenticateDriverCommand) Password() string    { return c.password }
