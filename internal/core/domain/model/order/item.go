package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Artifacts references the rendered files of an item on the document store.
// Document is the printable PDF; it is nil until rendering has produced it.
type Artifacts struct {
	FrontImage string
	BackImage  *string
	Document   *string
}

// Item is one printable line of an order. It is owned by the Order aggregate
// and only mutated through it.
//
// Invariants:
//   - totalPrice == unitPrice * quantity
//   - 0 <= printedCount <= quantity, and printedCount never decreases
type Item struct {
	id           kernel.UUID
	quantity     int
	unitPrice    int64
	totalPrice   int64
	artifacts    Artifacts
	status       Status
	printedCount int

	isConstructed bool
}

func NewItem(id kernel.UUID, quantity int, unitPrice int64, artifacts Artifacts) (*Item, error) {
	item := &Item{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setPricing(quantity, unitPrice),
		item.setArtifacts(artifacts),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreItem rebuilds an item from storage.
func RestoreItem(
	id kernel.UUID,
	quantity int,
	unitPrice int64,
	artifacts Artifacts,
	status Status,
	printedCount int,
) (*Item, error) {
	item, err := NewItem(id, quantity, unitPrice, artifacts)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	if printedCount < 0 || printedCount > quantity {
		return nil, errs.NewValueIsOutOfRangeError("printed_count", printedCount, 0, quantity)
	}

	item.status = status
	item.printedCount = printedCount
	return item, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID      { return i.id }
func (i *Item) Quantity() int        { return i.quantity }
func (i *Item) UnitPrice() int64     { return i.unitPrice }
func (i *Item) TotalPrice() int64    { return i.totalPrice }
func (i *Item) Artifacts() Artifacts { return i.artifacts }
func (i *Item) Status() Status       { return i.status }
func (i *Item) PrintedCount() int    { return i.printedCount }
func (i *Item) IsFullyPrinted() bool { return i.printedCount >= i.quantity }
func (i *Item) HasDocument() bool    { return i.artifacts.Document != nil }

// AttachDocument records the printable document produced by rendering.
func (i *Item) AttachDocument(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errs.NewValueIsRequiredError("document")
	}
	i.artifacts.Document = &path
	return nil
}

func (i *Item) markPrinting() {
	if i.status != Printed {
		i.status = Printing
	}
}

// markPrinted sets printedCount to the full quantity. Calling it again is a no-op.
func (i *Item) markPrinted() {
	i.status = Printed
	if i.printedCount < i.quantity {
		i.printedCount = i.quantity
	}
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setPricing(quantity int, unitPrice int64) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, MinQuantity, MaxQuantity)
	}
	if unitPrice <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit_price", fmt.Errorf("%d is not greater than 0", unitPrice))
	}
	i.quantity = quantity
	i.unitPrice = unitPrice
	i.totalPrice = unitPrice * int64(quantity)
	return nil
}

func (i *Item) setArtifacts(a Artifacts) error {
	if strings.TrimSpace(a.FrontImage) == "" {
		return errs.NewValueIsRequiredError("front_image")
	}
	i.artifacts = a
	return nil
}
