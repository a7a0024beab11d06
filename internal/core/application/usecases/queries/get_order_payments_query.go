package queries

import (
	"errors"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrGetOrderPaymentsQueryIsNotConstructed = errors.New(
	"GetOrderPaymentsQuery must be created via NewGetOrderPaymentsQuery constructor",
)

// GetOrderPaymentsQuery lists the payment attempts of one order, newest
// first, together with the order's payment status.
type GetOrderPaymentsQuery struct {
	number kernel.OrderNumber
	guard  guard.ConstructorGuard
}

func NewGetOrderPaymentsQuery(number string) (GetOrderPaymentsQuery, error) {
	n, err := kernel.OrderNumberFromString(number)
	if err != nil {
		return GetOrderPaymentsQuery{}, errs.NewValueIsInvalidErrorWithCause("order_number", err)
	}
	return GetOrderPaymentsQuery{number: n, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderPaymentsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderPaymentsQueryIsNotConstructed)
}

func (q GetOrderPaymentsQuery) Number() kernel.OrderNumber { return q.number }

type PaymentView struct {
	ID                kernel.UUID
	CheckoutRequestID string
	Method            string
	Amount            int64
	Status            string
	Receipt           *string
	FailureReason     *string
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

type GetOrderPaymentsQueryResponse struct {
	OrderNumber   string
	PaymentStatus string
	Total         int64
	Payments      []PaymentView
}
