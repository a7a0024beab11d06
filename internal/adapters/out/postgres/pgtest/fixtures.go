package pgtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
)

// Now is the fixed clock used by fixtures. Postgres keeps microseconds, so
// it has none below that.
var Now = time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC)

// NewOrder builds a pending two-item order with events drained.
func NewOrder(t *testing.T) *order.Order {
	t.Helper()
	return NewOrderNumbered(t, kernel.NewOrderNumber(Now))
}

// NewOrderNumbered is NewOrder with a fixed number.
func NewOrderNumbered(t *testing.T, number kernel.OrderNumber) *order.Order {
	t.Helper()
	phone, err := kernel.NewPhone("0712345678")
	require.NoError(t, err)
	email := "jane@example.com"
	customer, err := order.NewCustomer("Jane Wanjiku", phone, &email)
	require.NoError(t, err)
	address, err := order.NewAddress("Moi Avenue, Imenti House 2nd floor", "Nairobi")
	require.NoError(t, err)

	prices := order.DefaultPriceList()
	doc := number.String() + "/cards.pdf"
	back := number.String() + "/back.png"

	first, err := order.NewItem(kernel.NewUUID(), 50, prices.UnitPrice(50), order.Artifacts{
		FrontImage: number.String() + "/front.png",
		BackImage:  &back,
		Document:   &doc,
	})
	require.NoError(t, err)
	second, err := order.NewItem(kernel.NewUUID(), 25, prices.UnitPrice(25), order.Artifacts{
		FrontImage: number.String() + "/front2.png",
	})
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), number, customer, address,
		[]*order.Item{first, second}, prices.DeliveryFee("nairobi"), 0, Now)
	require.NoError(t, err)
	o.PullEvents()
	return o
}

// NewPrintableOrder builds a pending order with one item whose document is
// at "<number>/cards.pdf".
func NewPrintableOrder(t *testing.T) *order.Order {
	t.Helper()
	phone, err := kernel.NewPhone("0712345678")
	require.NoError(t, err)
	customer, err := order.NewCustomer("Jane Wanjiku", phone, nil)
	require.NoError(t, err)
	address, err := order.NewAddress("Moi Avenue, Imenti House 2nd floor", "Nairobi")
	require.NoError(t, err)

	prices := order.DefaultPriceList()
	number := kernel.NewOrderNumber(Now)
	doc := number.String() + "/cards.pdf"
	item, err := order.NewItem(kernel.NewUUID(), 100, prices.UnitPrice(100), order.Artifacts{
		FrontImage: number.String() + "/front.png",
		Document:   &doc,
	})
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), number, customer, address,
		[]*order.Item{item}, prices.DeliveryFee("nairobi"), 0, Now)
	require.NoError(t, err)
	o.PullEvents()
	return o
}

func NewPayment(t *testing.T, o *order.Order, handle string) *payment.Payment {
	t.Helper()
	phone, err := kernel.NewPhone("254712345678")
	require.NoError(t, err)
	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), handle, nil, payment.MethodMpesa, phone, o.Total(), Now)
	require.NoError(t, err)
	return p
}

func NewDriver(t *testing.T, phone string) *delivery.Driver {
	t.Helper()
	p, err := kernel.NewPhone(phone)
	require.NoError(t, err)
	vehicle := "motorbike"
	d, err := delivery.NewDriver(kernel.NewUUID(), "Otieno Rider", p, "s3cret-pass", &vehicle, nil, Now)
	require.NoError(t, err)
	return d
}
