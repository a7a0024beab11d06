package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

func TestPriceList_UnitPrice(t *testing.T) {
	prices := order.DefaultPriceList()

	tests := []struct {
		quantity int
		want     int64
	}{
		{1, 400}, {10, 400},
		{11, 300}, {25, 300}, {50, 300},
		{51, 200}, {200, 200},
		{201, 150}, {500, 150},
		{501, 120}, {1000, 120},
		{1001, 100}, {10000, 100},
		{0, 400},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, prices.UnitPrice(tt.quantity), "quantity %d", tt.quantity)
	}
}

func TestPriceList_DeliveryFee(t *testing.T) {
	prices := order.DefaultPriceList()

	assert.Equal(t, int64(200), prices.DeliveryFee("nairobi_cbd"))
	assert.Equal(t, int64(300), prices.DeliveryFee(" Nairobi "))
	assert.Equal(t, int64(700), prices.DeliveryFee("MOMBASA"))
	assert.Equal(t, int64(350), prices.DeliveryFee("thika"))
	assert.Equal(t, int64(1000), prices.DeliveryFee("garissa"))
	assert.Equal(t, int64(300), prices.DeliveryFee(""), "empty city defaults to nairobi")
}

func TestPriceList_Quote(t *testing.T) {
	prices := order.DefaultPriceList()

	t.Run("25 cards fall in the 11-50 bracket", func(t *testing.T) {
		q, err := prices.Quote(25, "nairobi")

		require.NoError(t, err)
		assert.Equal(t, "small", q.Tier)
		assert.Equal(t, int64(300), q.UnitPrice)
		assert.Equal(t, int64(25*300), q.Subtotal)
		assert.Equal(t, int64(300), q.DeliveryFee)
		assert.Equal(t, q.Subtotal+q.DeliveryFee, q.Total)
	})

	t.Run("quantity out of range", func(t *testing.T) {
		for _, qty := range []int{0, -3, 10001} {
			_, err := prices.Quote(qty, "nairobi")
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})
}

func TestPriceList_CopiesAreDetached(t *testing.T) {
	prices := order.DefaultPriceList()

	fees := prices.DeliveryFees()
	fees["nairobi"] = 1
	tiers := prices.Tiers()
	tiers[0].UnitPrice = 1

	assert.Equal(t, int64(300), prices.DeliveryFee("nairobi"))
	assert.Equal(t, int64(400), prices.UnitPrice(1))
}
