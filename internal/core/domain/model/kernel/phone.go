package kernel

import (
	"errors"
	"regexp"
	"strings"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

const countryCode = "254"

var (
	// ErrPhoneIsInvalid is the cause attached to every rejected phone number.
	ErrPhoneIsInvalid = errors.New("phone must be a Kenyan mobile number (2547XXXXXXXX or 2541XXXXXXXX)")

	ErrPhoneIsNotConstructed = errs.NewValueIsRequiredError("phone must be created via NewPhone")

	phoneSeparators = regexp.MustCompile(`[\s\-().]`)
	msisdnPattern   = regexp.MustCompile(`^254[17]\d{8}$`)
)

// Phone is a mobile number in canonical MSISDN form (254XXXXXXXXX), the form
// the mobile money gateway expects.
type Phone struct {
	value string
	guard guard.ConstructorGuard
}

// NewPhone normalizes raw user input:
//   - spaces, dashes, dots and parentheses are stripped, then a leading '+'
//   - a leading "0" is replaced by the country code
//   - a bare subscriber number starting with 7 or 1 gets the country code prepended
//
// The result must match 254 followed by 7 or 1 and eight more digits.
//
//	p, _ := kernel.NewPhone("0712 345 678")
//	p.String() // "254712345678"
func NewPhone(raw string) (Phone, error) {
	if strings.TrimSpace(raw) == "" {
		return Phone{}, errs.NewValueIsRequiredError("phone")
	}

	normalized := phoneSeparators.ReplaceAllString(raw, "")
	normalized = strings.TrimPrefix(normalized, "+")

	switch {
	case strings.HasPrefix(normalized, "0"):
		normalized = countryCode + normalized[1:]
	case strings.HasPrefix(normalized, "7"), strings.HasPrefix(normalized, "1"):
		normalized = countryCode + normalized
	}

	if !msisdnPattern.MatchString(normalized) {
		return Phone{}, errs.NewValueIsInvalidErrorWithCause("phone", ErrPhoneIsInvalid)
	}

	return Phone{value: normalized, guard: guard.NewConstructorGuard()}, nil
}

func (p Phone) Validate() error {
	return p.guard.Validate(ErrPhoneIsNotConstructed)
}

func (p Phone) String() string {
	return p.value
}

func (p Phone) IsEqual(other Phone) bool {
	return p.value == other.value
}
