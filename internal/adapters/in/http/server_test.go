package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpadapter "github.com/silver-ring/printke-web/internal/adapters/in/http"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/queries"
	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const adminKey = "admin-secret"

func newEcho(t *testing.T, h httpadapter.Handlers, sessions *MockSessions, m *recordedMetrics) *echo.Echo {
	t.Helper()
	if sessions == nil {
		sessions = new(MockSessions)
	}
	opts := []httpadapter.Option{httpadapter.WithClock(func() time.Time { return time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC) })}
	if m != nil {
		opts = append(opts, httpadapter.WithMetrics(m))
	}
	s := httpadapter.NewServer(h, nil, sessions, zap.NewNop(), opts...)
	return s.NewEcho(httpadapter.Routes{AdminAPIKey: adminKey})
}

func do(e *echo.Echo, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	rec := do(newEcho(t, httpadapter.Handlers{}, nil, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestPricing_QuotesTier(t *testing.T) {
	e := newEcho(t, httpadapter.Handlers{GetPricing: queries.NewGetPricingQueryHandler(order.DefaultPriceList())}, nil, nil)

	rec := do(e, http.MethodGet, "/api/pricing?quantity=25&city=Nairobi", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res httpadapter.PricingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Quote)
	assert.Equal(t, int64(300), res.Quote.UnitPrice)
	assert.Equal(t, int64(7500), res.Quote.Subtotal)
	assert.Equal(t, int64(7800), res.Quote.Total)
	assert.NotEmpty(t, res.Tiers)

	rec = do(e, http.MethodGet, "/api/pricing?quantity=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decode(t, rec)["kind"])
}

func TestCreateOrder_ValidationFailsBeforeUseCase(t *testing.T) {
	e := newEcho(t, httpadapter.Handlers{}, nil, nil)

	rec := do(e, http.MethodPost, "/api/orders",
		`{"customer_name":"Jane","phone":"0812345678","delivery_address":"Kimathi St","city":"Nairobi","quantity":25,"front_image":"a.png"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/orders", `{"quantity":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentCallback_AlwaysAccepts(t *testing.T) {
	success := `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_1","ResultCode":0,"CallbackMetadata":{"Item":[{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"}]}}}}`

	tests := []struct {
		name   string
		body   string
		setup  func(*MockReconciler)
		metric string
	}{
		{
			name: "applied",
			body: success,
			setup: func(r *MockReconciler) {
				r.On("Handle", mock.Anything, mock.Anything).Return(commands.ReconcileResult{Applied: true, Result: payment.ResultSucceeded}, nil).Once()
			},
			metric: "callback:" + payment.ResultSucceeded.String(),
		},
		{
			name: "duplicate",
			body: success,
			setup: func(r *MockReconciler) {
				r.On("Handle", mock.Anything, mock.Anything).Return(commands.ReconcileResult{}, nil).Once()
			},
			metric: "callback:ignored",
		},
		{
			name: "unknown handle",
			body: success,
			setup: func(r *MockReconciler) {
				r.On("Handle", mock.Anything, mock.Anything).Return(commands.ReconcileResult{}, errs.NewObjectNotFoundError("payment", "ws_CO_1")).Once()
			},
			metric: "callback:error",
		},
		{
			name:   "malformed",
			body:   `{"Body":`,
			setup:  func(*MockReconciler) {},
			metric: "callback:invalid",
		},
		{
			name:   "missing result code",
			body:   `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_1"}}}`,
			setup:  func(*MockReconciler) {},
			metric: "callback:invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(MockReconciler)
			tt.setup(r)
			m := &recordedMetrics{}
			e := newEcho(t, httpadapter.Handlers{ReconcilePayment: r}, nil, m)

			rec := do(e, http.MethodPost, "/api/payments/callback", tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"ResultCode":0,"ResultDesc":"Accepted"}`, rec.Body.String())
			assert.Equal(t, []string{tt.metric}, m.reconciliations)
			r.AssertExpectations(t)
		})
	}
}

func TestPaymentCallback_PassesOutcome(t *testing.T) {
	r := new(MockReconciler)
	r.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ReconcilePaymentCommand) bool {
		o := cmd.Outcome()
		return o.Handle == "ws_CO_9" && o.Result == payment.ResultFailed && o.Reason == "Transaction cancelled by user"
	})).Return(commands.ReconcileResult{Applied: true, Result: payment.ResultFailed}, nil).Once()

	e := newEcho(t, httpadapter.Handlers{ReconcilePayment: r}, nil, nil)
	rec := do(e, http.MethodPost, "/api/payments/callback",
		`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_9","ResultCode":1032}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	r.AssertExpectations(t)
}

func TestInitiatePayment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"already paid", order.ErrAlreadyPaid, http.StatusConflict, ""},
		{"unknown order", errs.NewObjectNotFoundError("order", "PK-240304-AB12"), http.StatusNotFound, ""},
		{"gateway down", errs.NewUpstreamFailureErrorWithCause("mpesa", "payment service unavailable", errors.New("dial tcp 10.0.0.7:443: i/o timeout")), http.StatusBadGateway, "payment service unavailable"},
		{"printer rejected", errs.NewUpstreamFailureErrorWithCause("printer", "print job was rejected",
			errs.NewUpstreamFailureErrorWithCause("lp", "command failed", errors.New("exit status 1: lp: Unable to connect to 10.0.0.7:631"))),
			http.StatusBadGateway, "print job was rejected"},
		{"unexpected", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := new(MockInitiator)
			h.On("Handle", mock.Anything, mock.Anything).Return(commands.InitiatePaymentResult{}, tt.err).Once()
			e := newEcho(t, httpadapter.Handlers{InitiatePayment: h}, nil, nil)

			rec := do(e, http.MethodPost, "/api/payments/initiate", `{"order_number":"PK-240304-AB12","phone":"0712345678"}`)

			assert.Equal(t, tt.code, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decode(t, rec)["message"])
			}
			assert.NotContains(t, rec.Body.String(), "10.0.0.7")
		})
	}
}

func TestInitiatePayment_InstantReceipt(t *testing.T) {
	receipt := "QK093015ABC"
	h := new(MockInitiator)
	h.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.InitiatePaymentCommand) bool {
		return cmd.Phone().String() == "254712345678"
	})).Return(commands.InitiatePaymentResult{
		CheckoutRequestID: "MOCK-20240304093015-ABC123",
		Status:            payment.Completed,
		Receipt:           &receipt,
		OrderStatus:       order.Printed,
	}, nil).Once()
	e := newEcho(t, httpadapter.Handlers{InitiatePayment: h}, nil, nil)

	rec := do(e, http.MethodPost, "/api/payments/initiate", `{"order_number":"PK-240304-AB12","phone":"+254 712 345 678"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, receipt, body["receipt"])
	assert.Equal(t, "printed", body["order_status"])
}

func TestAdminAuth(t *testing.T) {
	q := new(MockPrintQueue)
	q.On("Handle", mock.Anything, mock.Anything).Return([]queries.PrintQueueEntry{{JobID: kernel.NewUUID(), OrderNumber: "PK-240304-AB12", Status: "printing"}}, nil).Once()
	e := newEcho(t, httpadapter.Handlers{GetPrintQueue: q}, nil, nil)

	rec := do(e, http.MethodGet, "/api/admin/print-queue", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/api/admin/print-queue", "", httpadapter.AdminKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/api/admin/print-queue", "", httpadapter.AdminKeyHeader, adminKey)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PK-240304-AB12")

	rec = do(e, http.MethodGet, "/api/admin/print-queue?limit=5000", "", httpadapter.AdminKeyHeader, adminKey)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	q.AssertExpectations(t)
}

func TestDriverAuth(t *testing.T) {
	driverID := kernel.NewUUID()
	sessions := new(MockSessions)
	sessions.On("Resolve", mock.Anything, "good-token").Return(driverID, nil)
	sessions.On("Resolve", mock.Anything, "stale-token").Return(kernel.UUID{}, errs.NewObjectNotFoundError("session", "token"))

	deliveries := new(MockDeliveries)
	deliveries.On("ForDriver", mock.Anything, mock.MatchedBy(func(q queries.GetDriverDeliveriesQuery) bool {
		return q.DriverID().IsEqual(driverID)
	})).Return([]queries.DeliveryView{{ID: kernel.NewUUID(), OrderNumber: "PK-240304-AB12", Status: "assigned"}}, nil).Once()

	e := newEcho(t, httpadapter.Handlers{Deliveries: deliveries}, sessions, nil)

	rec := do(e, http.MethodGet, "/api/driver/deliveries", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/api/driver/deliveries", "", echo.HeaderAuthorization, "Bearer stale-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/api/driver/deliveries", "", echo.HeaderAuthorization, "Bearer good-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"order_number":"PK-240304-AB12"`)
	deliveries.AssertExpectations(t)
}

func TestPostLocation_ForeignDeliveryIsForbidden(t *testing.T) {
	driverID := kernel.NewUUID()
	sessions := new(MockSessions)
	sessions.On("Resolve", mock.Anything, "tok").Return(driverID, nil)

	recorder := new(MockLocationRecorder)
	recorder.On("Handle", mock.Anything, mock.Anything).Return(delivery.ErrNotAssignedDriver).Once()
	e := newEcho(t, httpadapter.Handlers{RecordLocation: recorder}, sessions, nil)

	target := "/api/driver/deliveries/" + kernel.NewUUID().String() + "/location"
	rec := do(e, http.MethodPost, target, `{"lat":-1.29,"lng":36.82}`, echo.HeaderAuthorization, "Bearer tok")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPost, target, `{"lat":-91,"lng":36.82}`, echo.HeaderAuthorization, "Bearer tok")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, target, `{"lat":-1.29}`, echo.HeaderAuthorization, "Bearer tok")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	recorder.AssertExpectations(t)
}

func TestRequestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &recordedMetrics{}
	e := newEcho(t, httpadapter.Handlers{}, nil, m)

	do(e, http.MethodGet, "/health", "")
	rec := do(e, http.MethodGet, "/api/orders/not-an-order/payments", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Len(t, m.requests, 2)
	assert.Equal(t, "GET /health", m.requests[0])
	// rejected before reaching a use case, still labelled by template
	assert.Equal(t, "GET /api/orders/:number/payments", m.requests[1])
}
