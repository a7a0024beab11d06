package payment

import (
	"fmt"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// Status of a single payment attempt. Completed and Failed are terminal.
type Status int

const (
	Unknown Status = iota
	Pending
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "completed":
		return Completed, nil
	case "failed":
		return Failed, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a valid payment status", s))
}
