package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

func TestAssignDeliveryCommandHandler_CreatesDelivery(t *testing.T) {
	ctx := t.Context()
	o := newPaidOrder(t)
	driver := newDriver(t, "Peter Otieno", "0722000001")
	pickup := "PrintKe shop, Moi Avenue"
	notes := "Call on arrival"

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow.drivers.On("Get", ctx, driver.ID()).Return(driver, nil).Once()
	uow.deliveries.On("FindByOrderForUpdate", ctx, o.ID()).Return(nil, nil).Once()
	uow.deliveries.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once()
	uow.orders.On("Update", ctx, o).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return().Once()

	cmd, err := commands.NewAssignDeliveryCommand(o.ID(), driver.ID(), &pickup, &notes)
	require.NoError(t, err)

	id, err := commands.NewAssignDeliveryCommandHandler(factoryFor(uow), publisher).Handle(ctx, cmd)
	require.NoError(t, err)

	added := uow.deliveries.Calls[1].Arguments.Get(1).(*delivery.Delivery)
	assert.True(t, id.IsEqual(added.ID()))
	assert.Equal(t, delivery.Assigned, added.Status())
	assert.True(t, added.IsAssignedTo(driver.ID()))
	assert.Equal(t, pickup, *added.PickupAddress())
	assert.Equal(t, order.Shipped, o.Status())
	assert.Equal(t, notes, *o.DeliveryNotes())
	uow.assertRepos(t)
}

func TestAssignDeliveryCommandHandler_ReassignsExistingDelivery(t *testing.T) {
	ctx := t.Context()
	first := newDriver(t, "Peter Otieno", "0722000001")
	second := newDriver(t, "Mary Achieng", "0722000002")
	o, d := newShippedDelivery(t, first)

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow.drivers.On("Get", ctx, second.ID()).Return(second, nil).Once()
	uow.deliveries.On("FindByOrderForUpdate", ctx, o.ID()).Return(d, nil).Once()
	uow.deliveries.On("Update", ctx, d).Return(nil).Once()
	uow.orders.On("Update", ctx, o).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return().Once()

	cmd, err := commands.NewAssignDeliveryCommand(o.ID(), second.ID(), nil, nil)
	require.NoError(t, err)

	id, err := commands.NewAssignDeliveryCommandHandler(factoryFor(uow), publisher).Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, id.IsEqual(d.ID()))
	assert.True(t, d.IsAssignedTo(second.ID()))
	assert.False(t, d.IsAssignedTo(first.ID()))
	uow.deliveries.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.assertRepos(t)
}

func TestAssignDeliveryCommandHandler_Rejections(t *testing.T) {
	t.Run("unpaid order", func(t *testing.T) {
		ctx := t.Context()
		o := newPendingOrder(t, 10)
		driver := newDriver(t, "Peter Otieno", "0722000001")

		uow := newMockUoW()
		uow.expectTx(ctx)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()

		cmd, err := commands.NewAssignDeliveryCommand(o.ID(), driver.ID(), nil, nil)
		require.NoError(t, err)
		_, err = commands.NewAssignDeliveryCommandHandler(factoryFor(uow), new(MockPublisher)).Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrInvalidOrderState)
		assert.Equal(t, order.Pending, o.Status())
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("inactive driver", func(t *testing.T) {
		ctx := t.Context()
		o := newPaidOrder(t)
		driver := newDriver(t, "Peter Otieno", "0722000001")
		driver.Deactivate()

		uow := newMockUoW()
		uow.expectTx(ctx)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		uow.drivers.On("Get", ctx, driver.ID()).Return(driver, nil).Once()
		uow.deliveries.On("FindByOrderForUpdate", ctx, o.ID()).Return(nil, nil).Once()

		cmd, err := commands.NewAssignDeliveryCommand(o.ID(), driver.ID(), nil, nil)
		require.NoError(t, err)
		_, err = commands.NewAssignDeliveryCommandHandler(factoryFor(uow), new(MockPublisher)).Handle(ctx, cmd)

		require.ErrorIs(t, err, delivery.ErrDriverInactive)
		uow.deliveries.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("unknown driver", func(t *testing.T) {
		ctx := t.Context()
		o := newPaidOrder(t)
		missing := kernel.NewUUID()

		uow := newMockUoW()
		uow.expectTx(ctx)
		uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
		uow.drivers.On("Get", ctx, missing).Return(nil, errs.NewObjectNotFoundError("driver", missing)).Once()

		cmd, err := commands.NewAssignDeliveryCommand(o.ID(), missing, nil, nil)
		require.NoError(t, err)
		_, err = commands.NewAssignDeliveryCommandHandler(factoryFor(uow), new(MockPublisher)).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func expectLockDelivery(uow *MockUoW, o *order.Order, d *delivery.Delivery, driver *delivery.Driver) {
	ctx := mock.Anything
	uow.deliveries.On("Get", ctx, d.ID()).Return(d, nil)
	uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil)
	uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil)
	uow.drivers.On("Get", ctx, driver.ID()).Return(driver, nil)
}

func TestStartDeliveryCommandHandler(t *testing.T) {
	ctx := t.Context()
	driver := newDriver(t, "Peter Otieno", "0722000001")
	o, d := newShippedDelivery(t, driver)

	uow := newMockUoW()
	uow.expectTx(ctx)
	expectLockDelivery(uow, o, d, driver)
	uow.deliveries.On("Update", ctx, d).Return(nil).Once()
	uow.orders.On("Update", ctx, o).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return().Once()

	handler := commands.NewStartDeliveryCommandHandler(factoryFor(uow), publisher)
	cmd, err := commands.NewStartDeliveryCommand(d.ID(), driver.ID())
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, delivery.InTransit, d.Status())
	assert.Equal(t, order.InTransit, o.Status())

	err = handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, delivery.ErrAlreadyStarted)
	uow.AssertNumberOfCalls(t, "Commit", 1)
}

// A driver posting fixes for a delivery assigned to someone else is refused
// every time and nothing is written.
func TestRecordLocationCommandHandler_ForeignDriver(t *testing.T) {
	ctx := t.Context()
	owner := newDriver(t, "Peter Otieno", "0722000001")
	intruder := newDriver(t, "Mary Achieng", "0722000002")
	_, d := newShippedDelivery(t, owner)

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Twice()
	uow.drivers.On("GetForUpdate", ctx, intruder.ID()).Return(intruder, nil).Twice()

	handler := commands.NewRecordLocationCommandHandler(factoryFor(uow), new(MockPublisher))
	cmd, err := commands.NewRecordLocationCommand(d.ID(), intruder.ID(), -1.2921, 36.8219, nil, nil)
	require.NoError(t, err)

	for range 2 {
		err = handler.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrForbidden)
	}

	uow.deliveries.AssertNotCalled(t, "AppendLocation", mock.Anything, mock.Anything)
	uow.drivers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	assert.Nil(t, intruder.LastPosition())
}

func TestRecordLocationCommandHandler_AppendsFix(t *testing.T) {
	ctx := t.Context()
	driver := newDriver(t, "Peter Otieno", "0722000001")
	_, d := newShippedDelivery(t, driver)
	accuracy := 8.5

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	uow.drivers.On("GetForUpdate", ctx, driver.ID()).Return(driver, nil).Once()
	uow.deliveries.On("AppendLocation", ctx, mock.AnythingOfType("*delivery.LocationFix")).Return(nil).Once()
	uow.drivers.On("Update", ctx, driver).Return(nil).Once()
	uow.deliveries.On("Update", ctx, d).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return().Once()

	cmd, err := commands.NewRecordLocationCommand(d.ID(), driver.ID(), -1.2921, 36.8219, &accuracy, nil)
	require.NoError(t, err)
	require.NoError(t, commands.NewRecordLocationCommandHandler(factoryFor(uow), publisher).Handle(ctx, cmd))

	fix := uow.deliveries.Calls[1].Arguments.Get(1).(*delivery.LocationFix)
	assert.InDelta(t, -1.2921, fix.Location().Lat(), 1e-9)
	assert.Equal(t, accuracy, *fix.Accuracy())
	require.NotNil(t, driver.LastPosition())
	assert.InDelta(t, 36.8219, driver.LastPosition().Lng(), 1e-9)
	uow.assertRepos(t)
}

func TestNewRecordLocationCommand_RejectsOutOfRange(t *testing.T) {
	_, err := commands.NewRecordLocationCommand(kernel.NewUUID(), kernel.NewUUID(), 91, 0, nil, nil)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewRecordLocationCommand(kernel.NewUUID(), kernel.NewUUID(), 0, -181, nil, nil)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

// Completing a delivery twice fails the second time and keeps the first
// deliveredAt.
func TestCompleteDeliveryCommandHandler_Twice(t *testing.T) {
	ctx := t.Context()
	driver := newDriver(t, "Peter Otieno", "0722000001")
	o, d := newShippedDelivery(t, driver)
	notes := "  Left with reception  "

	uow := newMockUoW()
	uow.expectTx(ctx)
	expectLockDelivery(uow, o, d, driver)
	uow.deliveries.On("Update", ctx, d).Return(nil).Once()
	uow.orders.On("Update", ctx, o).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return().Once()

	handler := commands.NewCompleteDeliveryCommandHandler(factoryFor(uow), publisher)
	cmd, err := commands.NewCompleteDeliveryCommand(d.ID(), driver.ID(), delivery.Proof{Notes: &notes})
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))
	require.NotNil(t, d.DeliveredAt())
	deliveredAt := *d.DeliveredAt()
	assert.Equal(t, "Left with reception", *d.Notes())
	assert.Equal(t, order.Delivered, o.Status())

	err = handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, delivery.ErrAlreadyCompleted)
	assert.Equal(t, deliveredAt, *d.DeliveredAt())
	uow.AssertNumberOfCalls(t, "Commit", 1)
	uow.assertRepos(t)
}
