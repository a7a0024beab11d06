// Package queries contains read operations for retrieving system state.
// Queries bypass the aggregates and return read models shaped for a single
// screen or API response.
package queries

import (
	"errors"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery looks an order up by its public number, the identifier
// customers hold.
//
// Example:
//
//	query, err := NewGetOrderQuery("pk-240101-ab12")
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	number kernel.OrderNumber
	guard  guard.ConstructorGuard
}

func NewGetOrderQuery(number string) (GetOrderQuery, error) {
	n, err := kernel.OrderNumberFromString(number)
	if err != nil {
		return GetOrderQuery{}, errs.NewValueIsInvalidErrorWithCause("order_number", err)
	}
	return GetOrderQuery{number: n, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Number() kernel.OrderNumber { return q.number }

// OrderItemView is one printed product of an order.
type OrderItemView struct {
	ID           kernel.UUID
	Quantity     int
	UnitPrice    int64
	TotalPrice   int64
	FrontImage   string
	BackImage    *string
	DocumentPath *string
	Status       string
	PrintedCount int
}

// GetOrderQueryResponse is the customer facing order view with milestone
// timestamps. Nil timestamps mean the milestone was not reached.
type GetOrderQueryResponse struct {
	ID               kernel.UUID
	Number           string
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    *string
	DeliveryAddress  string
	City             string
	Subtotal         int64
	DeliveryFee      int64
	Discount         int64
	Total            int64
	Status           string
	PaymentStatus    string
	PaymentMethod    *string
	PaymentReference *string
	TrackingNumber   *string
	DeliveryNotes    *string
	CreatedAt        time.Time
	PaidAt           *time.Time
	PrintedAt        *time.Time
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	Items            []OrderItemView
}
