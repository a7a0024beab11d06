package http_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/queries"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
)

type MockReconciler struct{ mock.Mock }

func (m *MockReconciler) Handle(ctx context.Context, cmd commands.ReconcilePaymentCommand) (commands.ReconcileResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ReconcileResult), args.Error(1)
}

type MockInitiator struct{ mock.Mock }

func (m *MockInitiator) Handle(ctx context.Context, cmd commands.InitiatePaymentCommand) (commands.InitiatePaymentResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.InitiatePaymentResult), args.Error(1)
}

type MockPrintQueue struct{ mock.Mock }

func (m *MockPrintQueue) Handle(ctx context.Context, q queries.GetPrintQueueQuery) ([]queries.PrintQueueEntry, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.PrintQueueEntry), args.Error(1)
}

type MockDeliveries struct{ mock.Mock }

func (m *MockDeliveries) ForDriver(ctx context.Context, q queries.GetDriverDeliveriesQuery) ([]queries.DeliveryView, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.DeliveryView), args.Error(1)
}

func (m *MockDeliveries) Active(ctx context.Context, q queries.GetActiveDeliveriesQuery) ([]queries.DeliveryView, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.DeliveryView), args.Error(1)
}

func (m *MockDeliveries) Get(ctx context.Context, q queries.GetDeliveryQuery) (queries.DeliveryDetail, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.DeliveryDetail), args.Error(1)
}

type MockLocationRecorder struct{ mock.Mock }

func (m *MockLocationRecorder) Handle(ctx context.Context, cmd commands.RecordLocationCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockSessions struct{ mock.Mock }

func (m *MockSessions) Create(ctx context.Context, driverID kernel.UUID, ttl time.Duration) (string, error) {
	args := m.Called(ctx, driverID, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockSessions) Resolve(ctx context.Context, token string) (kernel.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

func (m *MockSessions) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type recordedMetrics struct {
	mu              sync.Mutex
	requests        []string
	reconciliations []string
}

func (r *recordedMetrics) HTTPRequest(method, route string, _ int, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, method+" "+route)
}

func (r *recordedMetrics) Reconciliation(source, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reconciliations = append(r.reconciliations, source+":"+result)
}
