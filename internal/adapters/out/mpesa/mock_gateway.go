// Package mpesa adapts the mobile money push-payment flow: a mock gateway
// for development and the decoder for the gateway's result callback.
package mpesa

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/core/ports"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

type Mode string

const (
	// ModeInstant settles every push synchronously with a mock receipt.
	ModeInstant Mode = "instant"
	// ModeDeferred leaves pushes pending; status queries settle them once
	// the configured delay has passed.
	ModeDeferred Mode = "deferred"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeInstant, ModeDeferred:
		return m, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("payment gateway mode", fmt.Errorf("unknown mode %q", s))
	}
}

type pendingPush struct {
	amount    int64
	initiated time.Time
}

// MockGateway implements ports.PaymentGateway without calling out.
type MockGateway struct {
	mode        Mode
	settleAfter time.Duration
	now         func() time.Time
	log         *zap.Logger

	mu      sync.Mutex
	pending map[string]pendingPush
}

func NewMockGateway(mode Mode, settleAfter time.Duration, log *zap.Logger) *MockGateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &MockGateway{
		mode:        mode,
		settleAfter: settleAfter,
		now:         time.Now,
		log:         log.With(zap.String("component", "mpesa_mock")),
		pending:     make(map[string]pendingPush),
	}
}

func (g *MockGateway) InitiatePush(ctx context.Context, req ports.PushRequest) (ports.PushHandle, error) {
	if err := ctx.Err(); err != nil {
		return ports.PushHandle{}, errs.NewUpstreamFailureErrorWithCause("mpesa", "push request aborted", err)
	}
	if req.Amount <= 0 {
		return ports.PushHandle{}, errs.NewUpstreamFailureError("mpesa", "amount must be positive")
	}

	now := g.now()
	suffix := strings.ToUpper(uuid.NewString()[:6])
	handle := ports.PushHandle{
		CheckoutRequestID: fmt.Sprintf("MOCK-%s-%s", now.Format("20060102150405"), suffix),
		MerchantRequestID: "MOCK-MR-" + suffix,
	}

	g.log.Info("mock push initiated",
		zap.String("checkout_request_id", handle.CheckoutRequestID),
		zap.String("reference", req.Reference),
		zap.Int64("amount", req.Amount),
		zap.String("mode", string(g.mode)))

	if g.mode == ModeInstant {
		amount := req.Amount
		handle.Settled = &payment.Outcome{
			Handle:  handle.CheckoutRequestID,
			Result:  payment.ResultSucceeded,
			Receipt: Receipt(now),
			Amount:  &amount,
		}
		return handle, nil
	}

	g.mu.Lock()
	g.pending[handle.CheckoutRequestID] = pendingPush{amount: req.Amount, initiated: now}
	g.mu.Unlock()
	return handle, nil
}

// QueryStatus settles deferred pushes once settleAfter has elapsed. Handles
// this process never issued are reported failed.
func (g *MockGateway) QueryStatus(ctx context.Context, handle string) (payment.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return payment.Outcome{}, errs.NewUpstreamFailureErrorWithCause("mpesa", "status query aborted", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	push, ok := g.pending[handle]
	if !ok {
		return payment.Outcome{Handle: handle, Result: payment.ResultFailed, Reason: "unknown checkout request"}, nil
	}

	now := g.now()
	if now.Sub(push.initiated) < g.settleAfter {
		return payment.Outcome{Handle: handle, Result: payment.ResultPending}, nil
	}

	delete(g.pending, handle)
	amount := push.amount
	return payment.Outcome{
		Handle:  handle,
		Result:  payment.ResultSucceeded,
		Receipt: Receipt(now),
		Amount:  &amount,
	}, nil
}

// Receipt formats a mock receipt number such as QK093015ABC.
func Receipt(at time.Time) string {
	return "QK" + at.Format("150405") + "ABC"
}
