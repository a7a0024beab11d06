package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrCompletePrintJobsCommandIsNotConstructed = errors.New(
	"CompletePrintJobsCommand must be created via NewCompletePrintJobsCommand constructor",
)

// CompletePrintJobsCommand asks the spooler about printing jobs and completes
// the ones it no longer lists.
type CompletePrintJobsCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewCompletePrintJobsCommand(batchSize int) (CompletePrintJobsCommand, error) {
	if batchSize <= 0 {
		return CompletePrintJobsCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return CompletePrintJobsCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c CompletePrintJobsCommand) Validate() error {
	return c.guard.Validate(ErrCompletePrintJobsCommandIsNotConstructed)
}

func (c CompletePrintJobsCommand) BatchSize() int { return c.batchSize }
