package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrDispatchPrintCommandIsNotConstructed = errors.New(
	"DispatchPrintCommand must be created via NewDispatchPrintCommand constructor",
)

// DispatchPrintCommand sends every item of a paid order to the print backend.
type DispatchPrintCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDispatchPrintCommand(orderID kernel.UUID) (DispatchPrintCommand, error) {
	if err := orderID.Validate(); err != nil {
		return DispatchPrintCommand{}, err
	}
	return DispatchPrintCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c DispatchPrintCommand) Validate() error {
	return c.guard.Validate(ErrDispatchPrintCommandIsNotConstructed)
}

func (c DispatchPrintCommand) OrderID() kernel.UUID { return c.orderID }
