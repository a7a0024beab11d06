package commands

import (
	"errors"
	"time"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrPollPendingPaymentsCommandIsNotConstructed = errors.New(
	"PollPendingPaymentsCommand must be created via NewPollPendingPaymentsCommand constructor",
)

// PollPendingPaymentsCommand is the fallback for callbacks that never
// arrive. Payments pending for longer than after are queried; one that is
// still inconclusive after maxAttempts polls is failed.
type PollPendingPaymentsCommand struct {
	after       time.Duration
	maxAttempts int
	batchSize   int

	guard guard.ConstructorGuard
}

func NewPollPendingPaymentsCommand(after time.Duration, maxAttempts, batchSize int) (PollPendingPaymentsCommand, error) {
	var errList []error
	if after < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("poll delay", after, 0, "unbounded"))
	}
	if maxAttempts <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("max attempts", maxAttempts, 1, "unbounded"))
	}
	if batchSize <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return PollPendingPaymentsCommand{}, err
	}

	return PollPendingPaymentsCommand{
		after:       after,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c PollPendingPaymentsCommand) Validate() error {
	return c.guard.Validate(ErrPollPendingPaymentsCommandIsNotConstructed)
}

func (c PollPendingPaymentsCommand) After() time.Duration { return c.after }
func (c PollPendingPaymentsCommand) MaxAttempts() int     { return c.maxAttempts }
func (c PollPendingPaymentsCommand) BatchSize() int       { return c.batchSize }
