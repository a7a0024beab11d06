package commands_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, n kernel.OrderNumber) (*order.Order, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumberForUpdate(ctx context.Context, n kernel.OrderNumber) (*order.Order, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) GetByHandle(ctx context.Context, handle string) (*payment.Payment, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByHandleForUpdate(ctx context.Context, handle string) (*payment.Payment, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

type MockPrintJobRepository struct{ mock.Mock }

func (m *MockPrintJobRepository) Add(ctx context.Context, j *printjob.PrintJob) error {
	return m.Called(ctx, j).Error(0)
}

func (m *MockPrintJobRepository) Update(ctx context.Context, j *printjob.PrintJob) error {
	return m.Called(ctx, j).Error(0)
}

func (m *MockPrintJobRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*printjob.PrintJob, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*printjob.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) ListPrinting(ctx context.Context, limit int) ([]*printjob.PrintJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*printjob.PrintJob), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) FindByOrderForUpdate(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) AppendLocation(ctx context.Context, fix *delivery.LocationFix) error {
	return m.Called(ctx, fix).Error(0)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *delivery.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *delivery.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetByPhone(ctx context.Context, phone kernel.Phone) (*delivery.Driver, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Driver), args.Error(1)
}

type MockUoW struct {
	mock.Mock

	orders     *MockOrderRepository
	payments   *MockPaymentRepository
	printJobs  *MockPrintJobRepository
	deliveries *MockDeliveryRepository
	drivers    *MockDriverRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:     new(MockOrderRepository),
		payments:   new(MockPaymentRepository),
		printJobs:  new(MockPrintJobRepository),
		deliveries: new(MockDeliveryRepository),
		drivers:    new(MockDriverRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) CommittedEvents() []events.Event {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]events.Event)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository       { return m.orders }
func (m *MockUoW) PaymentRepository() ports.PaymentRepository   { return m.payments }
func (m *MockUoW) PrintJobRepository() ports.PrintJobRepository { return m.printJobs }
func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository { return m.deliveries }
func (m *MockUoW) DriverRepository() ports.DriverRepository     { return m.drivers }

// expectTx allows any number of transactions on the unit of work.
func (m *MockUoW) expectTx(ctx context.Context) {
	m.On("Begin", ctx).Return(nil)
	m.On("Commit", ctx).Return(nil)
	m.On("Rollback", ctx).Return(nil)
	m.On("CommittedEvents").Return(nil)
}

func (m *MockUoW) assertRepos(t mock.TestingT) {
	m.orders.AssertExpectations(t)
	m.payments.AssertExpectations(t)
	m.printJobs.AssertExpectations(t)
	m.deliveries.AssertExpectations(t)
	m.drivers.AssertExpectations(t)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

func factoryFor(uow *MockUoW) *MockUoWFactory {
	f := new(MockUoWFactory)
	f.On("Create").Return(uow)
	return f
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, evts ...events.Event) {
	m.Called(ctx, evts)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) InitiatePush(ctx context.Context, req ports.PushRequest) (ports.PushHandle, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PushHandle), args.Error(1)
}

func (m *MockGateway) QueryStatus(ctx context.Context, handle string) (payment.Outcome, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(payment.Outcome), args.Error(1)
}

type MockBackend struct {
	mock.Mock
	name string
}

func (m *MockBackend) Name() string { return m.name }

func (m *MockBackend) Submit(ctx context.Context, path string, copies int) (printjob.Submission, error) {
	args := m.Called(ctx, path, copies)
	return args.Get(0).(printjob.Submission), args.Error(1)
}

func (m *MockBackend) JobState(ctx context.Context, handle string) (printjob.BackendState, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(printjob.BackendState), args.Error(1)
}

type MockDocumentStore struct{ mock.Mock }

func (m *MockDocumentStore) Exists(ctx context.Context, rel string) (bool, error) {
	args := m.Called(ctx, rel)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentStore) Path(rel string) (string, error) {
	args := m.Called(rel)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Open(ctx context.Context, rel string) (io.ReadCloser, error) {
	args := m.Called(ctx, rel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

type MockSessionStore struct{ mock.Mock }

func (m *MockSessionStore) Create(ctx context.Context, driverID kernel.UUID, ttl time.Duration) (string, error) {
	args := m.Called(ctx, driverID, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Resolve(ctx context.Context, token string) (kernel.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

func (m *MockSessionStore) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Handle(ctx context.Context, cmd commands.DispatchPrintCommand) (commands.DispatchPrintResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.DispatchPrintResult), args.Error(1)
}
