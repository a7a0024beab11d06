package ports

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
)

// PushRequest asks the gateway to prompt a phone for payment.
type PushRequest struct {
	Phone     kernel.Phone
	Amount    int64
	Reference string
	Note      string
}

// PushHandle is the gateway's acknowledgement of a push request.
// Settled is set when the gateway resolved the push synchronously.
type PushHandle struct {
	CheckoutRequestID string
	MerchantRequestID string
	Settled           *payment.Outcome
}

// PaymentGateway is the mobile money collaborator. Errors are wrapped
// errs.UpstreamFailureError values; their messages are safe to log, not to
// return to customers.
type PaymentGateway interface {
	InitiatePush(ctx context.Context, req PushRequest) (PushHandle, error)
	QueryStatus(ctx context.Context, handle string) (payment.Outcome, error)
}
