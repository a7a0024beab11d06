package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
)

var fixtureTime = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

const documentPath = "PK-240101-AB12/PK-240101-AB12.pdf"

func newPendingOrder(t *testing.T, quantity int) *order.Order {
	t.Helper()
	phone, err := kernel.NewPhone("0712345678")
	require.NoError(t, err)
	customer, err := order.NewCustomer("Jane Wanjiku", phone, nil)
	require.NoError(t, err)
	address, err := order.NewAddress("Kimathi Street, Cargen House 4th floor", "Nairobi")
	require.NoError(t, err)

	prices := order.DefaultPriceList()
	doc := documentPath
	item, err := order.NewItem(kernel.NewUUID(), quantity, prices.UnitPrice(quantity), order.Artifacts{
		FrontImage: "PK-240101-AB12/front_card.png",
		Document:   &doc,
	})
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewOrderNumber(fixtureTime), customer, address,
		[]*order.Item{item}, prices.DeliveryFee("nairobi"), 0, fixtureTime)
	require.NoError(t, err)
	o.PullEvents()
	return o
}

func newPaidOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newPendingOrder(t, 25)
	require.NoError(t, o.ConfirmPayment(payment.MethodMpesa, "QK090000ABC", fixtureTime))
	o.PullEvents()
	return o
}

func newPendingPayment(t *testing.T, o *order.Order, handle string) *payment.Payment {
	t.Helper()
	phone, err := kernel.NewPhone("0712345678")
	require.NoError(t, err)
	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), handle, nil, payment.MethodMpesa, phone, o.Total(), fixtureTime)
	require.NoError(t, err)
	return p
}

func newDriver(t *testing.T, name, phone string) *delivery.Driver {
	t.Helper()
	p, err := kernel.NewPhone(phone)
	require.NoError(t, err)
	d, err := delivery.NewDriver(kernel.NewUUID(), name, p, "s3cret", nil, nil, fixtureTime)
	require.NoError(t, err)
	return d
}

// newShippedDelivery returns an order assigned to driver.
func newShippedDelivery(t *testing.T, driver *delivery.Driver) (*order.Order, *delivery.Delivery) {
	t.Helper()
	o := newPaidOrder(t)
	require.NoError(t, o.ShipForDelivery(fixtureTime))
	o.PullEvents()

	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), o.Number(), o.Address().Street(), driver, fixtureTime)
	require.NoError(t, err)
	d.PullEvents()
	return o, d
}
