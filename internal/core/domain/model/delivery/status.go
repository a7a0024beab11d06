package delivery

import "github.com/silver-ring/printke-web/internal/pkg/errs"

type Status int

const (
	Unknown Status = iota
	Assigned
	InTransit
	Delivered
)

func (s Status) String() string {
	switch s {
	case Assigned:
		return "assigned"
	case InTransit:
		return "in_transit"
	case Delivered:
		return "delivered"
	default:
		return "unknown"
	}
}

func (s Status) Validate() error {
	if s < Assigned || s > Delivered {
		return errs.NewValueIsInvalidError("delivery status")
	}
	return nil
}

// IsOpen reports whether the delivery still accepts location fixes.
func (s Status) IsOpen() bool {
	return s == Assigned || s == InTransit
}

func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{Assigned, InTransit, Delivered} {
		if st.String() == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidError("delivery status")
}
