package kernel

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

const (
	orderNumberPrefix   = "PK"
	orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderNumberSuffix   = 4
)

var (
	ErrOrderNumberIsNotConstructed = errs.NewValueIsRequiredError(
		"order number must be created via NewOrderNumber or OrderNumberFromString")

	orderNumberPattern = regexp.MustCompile(`^[A-Z]{2}-\d{6}-[A-Z0-9]{4}$`)
)

// OrderNumber is the human readable order identifier shown to customers,
// e.g. "PK-240101-AB12": prefix, YYMMDD date code, 4 character random suffix.
// Callers treat it as opaque; uniqueness is enforced by storage.
type OrderNumber struct {
	value string
	guard guard.ConstructorGuard
}

// NewOrderNumber generates a number for an order created at the given instant.
// The suffix is drawn uniformly from [A-Z0-9].
func NewOrderNumber(createdAt time.Time) OrderNumber {
	return OrderNumber{
		value: fmt.Sprintf("%s-%s-%s", orderNumberPrefix, createdAt.UTC().Format("060102"), randomSuffix()),
		guard: guard.NewConstructorGuard(),
	}
}

// OrderNumberFromString parses a number received from a client or storage.
func OrderNumberFromString(s string) (OrderNumber, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return OrderNumber{}, errs.NewValueIsRequiredError("order_number")
	}
	if !orderNumberPattern.MatchString(s) {
		return OrderNumber{}, errs.NewValueIsInvalidErrorWithCause(
			"order_number", fmt.Errorf("%q does not match PK-YYMMDD-XXXX", s))
	}

	return OrderNumber{value: s, guard: guard.NewConstructorGuard()}, nil
}

func (n OrderNumber) Validate() error {
	return n.guard.Validate(ErrOrderNumberIsNotConstructed)
}

func (n OrderNumber) String() string {
	return n.value
}

func (n OrderNumber) IsEqual(other OrderNumber) bool {
	return n.value == other.value
}

func randomSuffix() string {
	var buf [orderNumberSuffix]byte
	// 252 is the largest multiple of 36 below 256; higher bytes are redrawn.
	for i := 0; i < len(buf); {
		var b [1]byte
		_, _ = rand.Read(b[:])
		if b[0] >= 252 {
			continue
		}
		buf[i] = orderNumberAlphabet[int(b[0])%len(orderNumberAlphabet)]
		i++
	}
	return string(buf[:])
}
