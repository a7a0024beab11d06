package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

func validDraft() commands.OrderDraft {
	doc := documentPath
	return commands.OrderDraft{
		OrderID:      kernel.NewUUID(),
		Number:       kernel.NewOrderNumber(fixtureTime),
		CustomerName: "Jane Wanjiku",
		Phone:        "0712 345 678",
		Street:       "Kimathi Street, Cargen House 4th floor",
		City:         "Nakuru",
		Quantity:     25,
		Artifacts:    order.Artifacts{FrontImage: "PK-240101-AB12/front_card.png", Document: &doc},
	}
}

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand(validDraft())
	require.NoError(t, err)

	assert.Equal(t, "254712345678", cmd.Customer().Phone().String())
	assert.Equal(t, "nakuru", cmd.Address().City())
	assert.Equal(t, 25, cmd.Quantity())
	require.NoError(t, cmd.Validate())
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	d := validDraft()
	d.Phone = "12345"
	d.Street = "short"
	d.Quantity = 0

	_, err := commands.NewCreateOrderCommand(d)

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrPhoneIsInvalid)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestCreateOrderCommandHandler_Handle_PricesByTier(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(validDraft())
	require.NoError(t, err)

	uow := newMockUoW()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateOrderCommandHandler(factoryFor(uow), order.DefaultPriceList())
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "small", result.Quote.Tier)
	assert.Equal(t, int64(300), result.Quote.UnitPrice)
	assert.Equal(t, int64(25*300), result.Quote.Subtotal)
	assert.Equal(t, int64(500), result.Quote.DeliveryFee)
	assert.Equal(t, cmd.Number(), result.OrderNumber)

	added := uow.orders.Calls[0].Arguments.Get(1).(*order.Order)
	assert.Equal(t, order.Pending, added.Status())
	assert.Equal(t, int64(7500+500), added.Total())
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, order.DefaultPriceList())

	_, err := handler.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
