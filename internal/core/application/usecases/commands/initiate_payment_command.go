package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrInitiatePaymentCommandIsNotConstructed = errors.New(
	"InitiatePaymentCommand must be created via NewInitiatePaymentCommand constructor",
)

// InitiatePaymentCommand asks the customer's phone to approve a push payment
// for the full order total.
type InitiatePaymentCommand struct {
	orderNumber kernel.OrderNumber
	phone       kernel.Phone

	guard guard.ConstructorGuard
}

// NewInitiatePaymentCommand normalizes the phone to its international form.
// An unusable number fails with kernel.ErrPhoneIsInvalid.
func NewInitiatePaymentCommand(orderNumber, phone string) (InitiatePaymentCommand, error) {
	number, numberErr := kernel.OrderNumberFromString(orderNumber)
	msisdn, phoneErr := kernel.NewPhone(phone)
	if err := errors.Join(numberErr, phoneErr); err != nil {
		return InitiatePaymentCommand{}, err
	}

	return InitiatePaymentCommand{
		orderNumber: number,
		phone:       msisdn,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c InitiatePaymentCommand) Validate() error {
	return c.guard.Validate(ErrInitiatePaymentCommandIsNotConstructed)
}

func (c InitiatePaymentCommand) OrderNumber() kernel.OrderNumber { return c.orderNumber }
func (c InitiatePaymentCommand) Phone() kernel.Phone             { return c.phone }
