package queries

import (
	"context"
	"errors"
	"sort"

	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/pkg/guard"
)

var ErrGetPricingQueryIsNotConstructed = errors.New("GetPricingQuery must be created via NewGetPricingQuery constructor")

// GetPricingQuery returns the public price list. With a quantity it also
// returns a quote for that quantity delivered to City.
type GetPricingQuery struct {
	quantity *int
	city     string
	guard    guard.ConstructorGuard
}

func NewGetPricingQuery(quantity *int, city string) GetPricingQuery {
	return GetPricingQuery{quantity: quantity, city: city, guard: guard.NewConstructorGuard()}
}

func (q GetPricingQuery) Validate() error {
	return q.guard.Validate(ErrGetPricingQueryIsNotConstructed)
}

type CityFee struct {
	City string
	Fee  int64
}

type GetPricingQueryResponse struct {
	Tiers        []order.Tier
	DeliveryFees []CityFee
	Quote        *order.Quote
}

type GetPricingQueryHandler struct {
	prices order.PriceList
}

func NewGetPricingQueryHandler(prices order.PriceList) GetPricingQueryHandler {
	return GetPricingQueryHandler{prices: prices}
}

// Handle fails only when a requested quote is out of range.
func (h GetPricingQueryHandler) Handle(_ context.Context, query GetPricingQuery) (GetPricingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPricingQueryResponse{}, err
	}

	fees := h.prices.DeliveryFees()
	res := GetPricingQueryResponse{
		Tiers:        h.prices.Tiers(),
		DeliveryFees: make([]CityFee, 0, len(fees)),
	}
	for city, fee := range fees {
		res.DeliveryFees = append(res.DeliveryFees, CityFee{City: city, Fee: fee})
	}
	sort.Slice(res.DeliveryFees, func(i, j int) bool {
		return res.DeliveryFees[i].Fee < res.DeliveryFees[j].Fee ||
			(res.DeliveryFees[i].Fee == res.DeliveryFees[j].Fee && res.DeliveryFees[i].City < res.DeliveryFees[j].City)
	})

	if query.quantity != nil {
		quote, err := h.prices.Quote(*query.quantity, query.city)
		if err != nil {
			return GetPricingQueryResponse{}, err
		}
		res.Quote = &quote
	}
	return res, nil
}
