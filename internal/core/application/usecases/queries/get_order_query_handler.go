package queries

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// GetOrderQueryHandler reads the order row and its items with two plain
// SQL statements.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown number.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	var res GetOrderQueryResponse
	var id uuid.UUID

	row := db.Raw(`
		SELECT
			id, number, customer_name, customer_phone, customer_email,
			delivery_address, city, subtotal, delivery_fee, discount, total,
			status, payment_status, payment_method, payment_reference,
			tracking_number, delivery_notes,
			created_at, paid_at, printed_at, shipped_at, delivered_at
		FROM orders
		WHERE number = ?
	`, query.Number().String()).Row()
	err := row.Scan(
		&id, &res.Number, &res.CustomerName, &res.CustomerPhone, &res.CustomerEmail,
		&res.DeliveryAddress, &res.City, &res.Subtotal, &res.DeliveryFee, &res.Discount, &res.Total,
		&res.Status, &res.PaymentStatus, &res.PaymentMethod, &res.PaymentReference,
		&res.TrackingNumber, &res.DeliveryNotes,
		&res.CreatedAt, &res.PaidAt, &res.PrintedAt, &res.ShippedAt, &res.DeliveredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.Number().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if res.ID, err = kernel.UUIDFromGoogle(id); err != nil {
		return GetOrderQueryResponse{}, err
	}
	normalizeTimes(&res.CreatedAt, res.PaidAt, res.PrintedAt, res.ShippedAt, res.DeliveredAt)

	res.Items, err = h.items(db, id)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	return res, nil
}

func (h GetOrderQueryHandler) items(db *gorm.DB, orderID uuid.UUID) ([]OrderItemView, error) {
	rows, err := db.Raw(`
		SELECT
			id, quantity, unit_price, total_price,
			front_image, back_image, document_path, status, printed_count
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemView, 0, 1)
	for rows.Next() {
		var item OrderItemView
		var id uuid.UUID
		if err = rows.Scan(
			&id, &item.Quantity, &item.UnitPrice, &item.TotalPrice,
			&item.FrontImage, &item.BackImage, &item.DocumentPath, &item.Status, &item.PrintedCount,
		); err != nil {
			return nil, err
		}
		if item.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
