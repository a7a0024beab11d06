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

type GetOrderPaymentsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderPaymentsQueryHandler(db *gorm.DB) GetOrderPaymentsQueryHandler {
	return GetOrderPaymentsQueryHandler{db: db}
}

func (h GetOrderPaymentsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderPaymentsQuery,
) (GetOrderPaymentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderPaymentsQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	res := GetOrderPaymentsQueryResponse{Payments: make([]PaymentView, 0)}
	var orderID uuid.UUID

	err := db.Raw(`SELECT id, number, payment_status, total FROM orders WHERE number = ?`,
		query.Number().String()).Row().Scan(&orderID, &res.OrderNumber, &res.PaymentStatus, &res.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderPaymentsQueryResponse{}, errs.NewObjectNotFoundError("order", query.Number().String())
	}
	if err != nil {
		return GetOrderPaymentsQueryResponse{}, err
	}

	rows, err := db.Raw(`
		SELECT
			id, checkout_request_id, method, amount, status,
			receipt, failure_reason, created_at, completed_at
		FROM payments
		WHERE order_id = ?
		ORDER BY created_at DESC
	`, orderID).Rows()
	if err != nil {
		return GetOrderPaymentsQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var p PaymentView
		var id uuid.UUID
		if err = rows.Scan(
			&id, &p.CheckoutRequestID, &p.Method, &p.Amount, &p.Status,
			&p.Receipt, &p.FailureReason, &p.CreatedAt, &p.CompletedAt,
		); err != nil {
			return GetOrderPaymentsQueryResponse{}, err
		}
		if p.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return GetOrderPaymentsQueryResponse{}, err
		}
		normalizeTimes(&p.CreatedAt, p.CompletedAt)
		res.Payments = append(res.Payments, p)
	}
	if err = rows.Err(); err != nil {
		return GetOrderPaymentsQueryResponse{}, err
	}
	return res, nil
}
