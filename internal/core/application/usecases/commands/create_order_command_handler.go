package commands

import (
	"context"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
)

// CreateOrderResult is returned to the customer after checkout.
type CreateOrderResult struct {
	OrderID     kernel.UUID
	OrderNumber kernel.OrderNumber
	Quote       order.Quote
}

// CreateOrderCommandHandler prices and persists a new pending order.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	prices     order.PriceList
	clock      Clock
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory, prices order.PriceList) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		prices:     prices,
		clock:      time.Now,
	}
}

// Handle quotes the quantity for the delivery city and stores the order with
// a single item carrying the rendered artifacts.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	now := h.clock()
	quote, err := h.prices.Quote(cmd.Quantity(), cmd.Address().City())
	if err != nil {
		return CreateOrderResult{}, err
	}

	item, err := order.NewItem(kernel.NewUUID(), quote.Quantity, quote.UnitPrice, cmd.Artifacts())
	if err != nil {
		return CreateOrderResult{}, err
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Number(),
		cmd.Customer(),
		cmd.Address(),
		[]*order.Item{item},
		quote.DeliveryFee,
		0,
		now,
	)
	if err != nil {
		return CreateOrderResult{}, err
	}
	o.SetDeliveryNotes(cmd.Notes())

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{OrderID: o.ID(), OrderNumber: o.Number(), Quote: quote}, nil
}
