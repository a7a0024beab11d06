// Package paymentrepo persists payment attempts.
package paymentrepo

import (
	"time"

	"github.com/google/uuid"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
)

// PaymentDTO is one push payment attempt. CheckoutRequestID is the gateway
// correlation handle callbacks are matched on.
type PaymentDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index"`
	CheckoutRequestID string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	MerchantRequestID *string   `gorm:"type:varchar(100)"`
	Method            string    `gorm:"type:varchar(20);not null"`
	Phone             string    `gorm:"type:varchar(15);not null"`
	Amount            int64     `gorm:"not null"`
	Status            string    `gorm:"type:varchar(20);not null;index"`
	Receipt           *string   `gorm:"type:varchar(50)"`
	FailureReason     *string   `gorm:"type:text"`
	PollAttempts      int       `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"not null;index"`
	CompletedAt       *time.Time
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:                p.ID().Bytes(),
		OrderID:           p.OrderID().Bytes(),
		CheckoutRequestID: p.Handle(),
		MerchantRequestID: p.MerchantRequestID(),
		Method:            p.Method(),
		Phone:             p.Phone().String(),
		Amount:            p.Amount(),
		Status:            p.Status().String(),
		Receipt:           p.Receipt(),
		FailureReason:     p.FailureReason(),
		PollAttempts:      p.PollAttempts(),
		CreatedAt:         p.CreatedAt(),
		CompletedAt:       p.CompletedAt(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	phone, err := kernel.NewPhone(dto.Phone)
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var completedAt *time.Time
	if dto.CompletedAt != nil {
		t := dto.CompletedAt.UTC()
		completedAt = &t
	}

	return payment.RestorePayment(payment.State{
		ID:                id,
		OrderID:           orderID,
		Handle:            dto.CheckoutRequestID,
		MerchantRequestID: dto.MerchantRequestID,
		Method:            dto.Method,
		Phone:             phone,
		Amount:            dto.Amount,
		Status:            status,
		Receipt:           dto.Receipt,
		FailureReason:     dto.FailureReason,
		PollAttempts:      dto.PollAttempts,
		CreatedAt:         dto.CreatedAt.UTC(),
		CompletedAt:       completedAt,
	})
}
