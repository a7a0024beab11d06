package commands

import (
	"errors"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places a new business card order. The artifacts are
// the relative paths produced by the upload and rendering step.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(OrderDraft{
//	    CustomerName: "Jane Wanjiku",
//	    Phone:        "0712345678",
//	    Street:       "Kimathi Street, Cargen House",
//	    City:         "Nairobi",
//	    Quantity:     25,
//	    Artifacts:    order.Artifacts{FrontImage: "PK-240101-AB12/front.png"},
//	})
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	number    kernel.OrderNumber
	customer  order.Customer
	address   order.Address
	quantity  int
	artifacts order.Artifacts
	notes     *string

	guard guard.ConstructorGuard
}

// OrderDraft carries the raw create order input.
type OrderDraft struct {
	OrderID      kernel.UUID
	Number       kernel.OrderNumber
	CustomerName string
	Phone        string
	Email        *string
	Street       string
	City         string
	Quantity     int
	Artifacts    order.Artifacts
	Notes        *string
}

func NewCreateOrderCommand(d OrderDraft) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		orderID:   d.OrderID,
		number:    d.Number,
		artifacts: d.Artifacts,
		notes:     d.Notes,
		guard:     guard.NewConstructorGuard(),
	}

	var quantityErr error
	if d.Quantity < order.MinQuantity || d.Quantity > order.MaxQuantity {
		quantityErr = errs.NewValueIsOutOfRangeError("quantity", d.Quantity, order.MinQuantity, order.MaxQuantity)
	}

	phone, phoneErr := kernel.NewPhone(d.Phone)
	var customerErr error
	if phoneErr == nil {
		cmd.customer, customerErr = order.NewCustomer(d.CustomerName, phone, d.Email)
	}
	var addressErr error
	cmd.address, addressErr = order.NewAddress(d.Street, d.City)

	if err := errors.Join(
		d.OrderID.Validate(),
		d.Number.Validate(),
		phoneErr,
		customerErr,
		addressErr,
		quantityErr,
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.quantity = d.Quantity
	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID       { return c.orderID }
func (c CreateOrderCommand) Number() kernel.OrderNumber { return c.number }
func (c CreateOrderCommand) Customer() order.Customer   { return c.customer }
func (c CreateOrderCommand) Address() order.Address     { return c.address }
func (c CreateOrderCommand) Quantity() int              { return c.quantity }
func (c CreateOrderCommand) Artifacts() order.Artifacts { return c.artifacts }
func (c CreateOrderCommand) Notes() *string             { return c.notes }
