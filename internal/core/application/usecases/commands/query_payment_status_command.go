package commands

import (
	"errors"
	"strings"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrQueryPaymentStatusCommandIsNotConstructed = errors.New(
	"QueryPaymentStatusCommand must be created via NewQueryPaymentStatusCommand constructor",
)

// QueryPaymentStatusCommand asks the gateway about a push that has not
// been settled by a callback. It is a command because a terminal answer is
// reconciled into the order.
type QueryPaymentStatusCommand struct {
	handle string

	guard guard.ConstructorGuard
}

func NewQueryPaymentStatusCommand(handle string) (QueryPaymentStatusCommand, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return QueryPaymentStatusCommand{}, errs.NewValueIsRequiredError("checkout_request_id")
	}
	return QueryPaymentStatusCommand{handle: handle, guard: guard.NewConstructorGuard()}, nil
}

func (c QueryPaymentStatusCommand) Validate() error {
	return c.guard.Validate(ErrQueryPaymentStatusCommandIsNotConstructed)
}

func (c QueryPaymentStatusCommand) Handle() string { return c.handle }
