package order

import (
	"strings"

	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const (
	MinQuantity = 1
	MaxQuantity = 10000

	// CityOther is the fee bucket for any city without its own rate.
	CityOther = "other"
)

// Tier is a quantity bracket with its per card price in KES.
type Tier struct {
	Name      string
	MinQty    int
	MaxQty    int
	UnitPrice int64
}

// PriceList resolves unit prices by quantity bracket and delivery fees by city.
type PriceList struct {
	tiers         []Tier
	fallbackPrice int64
	deliveryFees  map[string]int64
}

// Quote is the priced breakdown for a quantity delivered to a city.
type Quote struct {
	Quantity    int
	Tier        string
	UnitPrice   int64
	Subtotal    int64
	DeliveryFee int64
	Total       int64
}

func DefaultPriceList() PriceList {
	return PriceList{
		tiers: []Tier{
			{Name: "single", MinQty: 1, MaxQty: 10, UnitPrice: 400},
			{Name: "small", MinQty: 11, MaxQty: 50, UnitPrice: 300},
			{Name: "medium", MinQty: 51, MaxQty: 200, UnitPrice: 200},
			{Name: "standard", MinQty: 201, MaxQty: 500, UnitPrice: 150},
			{Name: "large", MinQty: 501, MaxQty: 1000, UnitPrice: 120},
			{Name: "bulk", MinQty: 1001, MaxQty: 999999, UnitPrice: 100},
		},
		fallbackPrice: 400,
		deliveryFees: map[string]int64{
			"nairobi_cbd": 200,
			"nairobi":     300,
			"nakuru":      500,
			"mombasa":     700,
			"kisumu":      700,
			"eldoret":     600,
			"thika":       350,
			CityOther:     1000,
		},
	}
}

func (p PriceList) Tiers() []Tier {
	return append([]Tier(nil), p.tiers...)
}

// DeliveryFees returns a copy of the city fee table.
func (p PriceList) DeliveryFees() map[string]int64 {
	out := make(map[string]int64, len(p.deliveryFees))
	for k, v := range p.deliveryFees {
		out[k] = v
	}
	return out
}

func (p PriceList) tierFor(quantity int) (Tier, bool) {
	for _, t := range p.tiers {
		if quantity >= t.MinQty && quantity <= t.MaxQty {
			return t, true
		}
	}
	return Tier{}, false
}

// UnitPrice returns the per card price for quantity, or the fallback price
// when no bracket matches.
func (p PriceList) UnitPrice(quantity int) int64 {
	if t, ok := p.tierFor(quantity); ok {
		return t.UnitPrice
	}
	return p.fallbackPrice
}

// DeliveryFee returns the fee for city, case insensitive, falling back to the
// "other" rate.
func (p PriceList) DeliveryFee(city string) int64 {
	if fee, ok := p.deliveryFees[NormalizeCity(city)]; ok {
		return fee
	}
	return p.deliveryFees[CityOther]
}

func (p PriceList) Quote(quantity int, city string) (Quote, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return Quote{}, errs.NewValueIsOutOfRangeError("quantity", quantity, MinQuantity, MaxQuantity)
	}

	tierName := "custom"
	if t, ok := p.tierFor(quantity); ok {
		tierName = t.Name
	}

	unit := p.UnitPrice(quantity)
	subtotal := unit * int64(quantity)
	fee := p.DeliveryFee(city)

	return Quote{
		Quantity:    quantity,
		Tier:        tierName,
		UnitPrice:   unit,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal + fee,
	}, nil
}

func NormalizeCity(city string) string {
	c := strings.ToLower(strings.TrimSpace(city))
	if c == "" {
		return "nairobi"
	}
	return c
}
