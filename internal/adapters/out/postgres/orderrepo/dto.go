// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between the order with its items and their database rows.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Statuses are stored by name so the table stays readable from SQL.
type OrderDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number           string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerName     string    `gorm:"type:varchar(100);not null"`
	CustomerPhone    string    `gorm:"type:varchar(15);not null;index"`
	CustomerEmail    *string   `gorm:"type:varchar(255)"`
	DeliveryAddress  string    `gorm:"type:text;not null"`
	City             string    `gorm:"type:varchar(100);not null"`
	Subtotal         int64     `gorm:"not null"`
	DeliveryFee      int64     `gorm:"not null"`
	Discount         int64     `gorm:"not null;default:0"`
	Total            int64     `gorm:"not null"`
	Status           string    `gorm:"type:varchar(20);not null;index"`
	PaymentStatus    string    `gorm:"type:varchar(20);not null"`
	PaymentMethod    *string   `gorm:"type:varchar(50)"`
	PaymentReference *string   `gorm:"type:varchar(100)"`
	DeliveryNotes    *string   `gorm:"type:text"`
	TrackingNumber   *string   `gorm:"type:varchar(50)"`
	CreatedAt        time.Time `gorm:"not null;index"`
	PaidAt           *time.Time
	PrintedAt        *time.Time
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	Version          int            `gorm:"not null;default:0"`
	Items            []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one printable line of an order.
type OrderItemDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Position     int       `gorm:"not null"`
	Quantity     int       `gorm:"not null"`
	UnitPrice    int64     `gorm:"not null"`
	TotalPrice   int64     `gorm:"not null"`
	FrontImage   string    `gorm:"type:varchar(500);not null"`
	BackImage    *string   `gorm:"type:varchar(500)"`
	DocumentPath *string   `gorm:"type:varchar(500)"`
	Status       string    `gorm:"type:varchar(20);not null"`
	PrintedCount int       `gorm:"not null;default:0"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		artifacts := item.Artifacts()
		items = append(items, OrderItemDTO{
			ID:           item.ID().Bytes(),
			OrderID:      orderID,
			Position:     i,
			Quantity:     item.Quantity(),
			UnitPrice:    item.UnitPrice(),
			TotalPrice:   item.TotalPrice(),
			FrontImage:   artifacts.FrontImage,
			BackImage:    artifacts.BackImage,
			DocumentPath: artifacts.Document,
			Status:       item.Status().String(),
			PrintedCount: item.PrintedCount(),
		})
	}

	customer := o.Customer()
	return OrderDTO{
		ID:               orderID,
		Number:           o.Number().String(),
		CustomerName:     customer.Name(),
		CustomerPhone:    customer.Phone().String(),
		CustomerEmail:    customer.Email(),
		DeliveryAddress:  o.Address().Street(),
		City:             o.Address().City(),
		Subtotal:         o.Subtotal(),
		DeliveryFee:      o.DeliveryFee(),
		Discount:         o.Discount(),
		Total:            o.Total(),
		Status:           o.Status().String(),
		PaymentStatus:    o.PaymentStatus().String(),
		PaymentMethod:    o.PaymentMethod(),
		PaymentReference: o.PaymentReference(),
		DeliveryNotes:    o.DeliveryNotes(),
		TrackingNumber:   o.TrackingNumber(),
		CreatedAt:        o.CreatedAt(),
		PaidAt:           o.PaidAt(),
		PrintedAt:        o.PrintedAt(),
		ShippedAt:        o.ShippedAt(),
		DeliveredAt:      o.DeliveredAt(),
		Version:          o.Version(),
		Items:            items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	number, err := kernel.OrderNumberFromString(dto.Number)
	if err != nil {
		return nil, err
	}
	phone, err := kernel.NewPhone(dto.CustomerPhone)
	if err != nil {
		return nil, err
	}
	customer, err := order.NewCustomer(dto.CustomerName, phone, dto.CustomerEmail)
	if err != nil {
		return nil, err
	}
	address, err := order.NewAddress(dto.DeliveryAddress, dto.City)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.State{
		ID:               id,
		Number:           number,
		Customer:         customer,
		Address:          address,
		Items:            items,
		Subtotal:         dto.Subtotal,
		DeliveryFee:      dto.DeliveryFee,
		Discount:         dto.Discount,
		Total:            dto.Total,
		Status:           status,
		PaymentStatus:    paymentStatus,
		PaymentMethod:    dto.PaymentMethod,
		PaymentReference: dto.PaymentReference,
		DeliveryNotes:    dto.DeliveryNotes,
		TrackingNumber:   dto.TrackingNumber,
		CreatedAt:        dto.CreatedAt.UTC(),
		PaidAt:           utc(dto.PaidAt),
		PrintedAt:        utc(dto.PrintedAt),
		ShippedAt:        utc(dto.ShippedAt),
		DeliveredAt:      utc(dto.DeliveredAt),
		Version:          dto.Version,
	})
}

func itemToDomain(dto OrderItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(id, dto.Quantity, dto.UnitPrice, order.Artifacts{
		FrontImage: dto.FrontImage,
		BackImage:  dto.BackImage,
		Document:   dto.DocumentPath,
	}, status, dto.PrintedCount)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
