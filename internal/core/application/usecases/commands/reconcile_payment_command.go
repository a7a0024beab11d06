package commands

import (
	"errors"
	"strings"

	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrReconcilePaymentCommandIsNotConstructed = errors.New(
	"ReconcilePaymentCommand must be created via NewReconcilePaymentCommand constructor",
)

// ReconcilePaymentCommand carries a gateway callback.
type ReconcilePaymentCommand struct {
	outcome payment.Outcome

	guard guard.ConstructorGuard
}

func NewReconcilePaymentCommand(outcome payment.Outcome) (ReconcilePaymentCommand, error) {
	outcome.Handle = strings.TrimSpace(outcome.Handle)
	if outcome.Handle == "" {
		return ReconcilePaymentCommand{}, errs.NewValueIsRequiredError("checkout_request_id")
	}
	return ReconcilePaymentCommand{outcome: outcome, guard: guard.NewConstructorGuard()}, nil
}

func (c ReconcilePaymentCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePaymentCommandIsNotConstructed)
}

func (c ReconcilePaymentCommand) Outcome() payment.Outcome { return c.outcome }
