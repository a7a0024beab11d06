package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

func successCallback(t *testing.T, handle string) commands.ReconcilePaymentCommand {
	t.Helper()
	cmd, err := commands.NewReconcilePaymentCommand(payment.Outcome{
		Handle:  handle,
		Result:  payment.ResultSucceeded,
		Receipt: "QK090000ABC",
	})
	require.NoError(t, err)
	return cmd
}

func TestNewReconcilePaymentCommand_RequiresHandle(t *testing.T) {
	_, err := commands.NewReconcilePaymentCommand(payment.Outcome{Handle: "  "})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestReconcilePaymentCommandHandler_DuplicateCallbackIsNoop(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t, 25)
	p := newPendingPayment(t, o, "ws_CO_1")
	cmd := successCallback(t, "ws_CO_1")

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.payments.On("GetByHandle", ctx, "ws_CO_1").Return(p, nil).Twice()
	uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Twice()
	uow.payments.On("GetByHandleForUpdate", ctx, "ws_CO_1").Return(p, nil).Twice()
	uow.payments.On("Update", ctx, p).Return(nil).Once()
	uow.orders.On("Update", ctx, o).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return().Once()
	dispatcher := new(MockDispatcher)
	dispatcher.On("Handle", ctx, mock.Anything).Return(commands.DispatchPrintResult{}, nil).Once()

	handler := commands.NewReconcilePaymentCommandHandler(factoryFor(uow), publisher, dispatcher, zap.NewNop())

	first, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, first.Applied)
	assert.Equal(t, payment.ResultSucceeded, first.Result)
	paidAt := *o.PaidAt()

	second, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, second.Applied)

	assert.Equal(t, payment.Completed, p.Status())
	assert.Equal(t, paidAt, *o.PaidAt())
	assert.Equal(t, order.Processing, o.Status())
	uow.assertRepos(t)
	dispatcher.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertNumberOfCalls(t, "Commit", 1)
}

func TestReconcilePaymentCommandHandler_UnknownHandle(t *testing.T) {
	ctx := t.Context()
	cmd := successCallback(t, "ws_CO_unknown")

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.payments.On("GetByHandle", ctx, "ws_CO_unknown").
		Return(nil, errs.NewObjectNotFoundError("checkout_request_id", "ws_CO_unknown")).Once()

	handler := commands.NewReconcilePaymentCommandHandler(factoryFor(uow), new(MockPublisher), nil, zap.NewNop())
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, result.Applied)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestReconcilePaymentCommandHandler_FailureLeavesOrderUntouched(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t, 25)
	p := newPendingPayment(t, o, "ws_CO_2")
	cmd, err := commands.NewReconcilePaymentCommand(payment.Outcome{
		Handle: "ws_CO_2",
		Result: payment.ResultFailed,
		Reason: "Request cancelled by user",
	})
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.payments.On("GetByHandle", ctx, "ws_CO_2").Return(p, nil).Once()
	uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow.payments.On("GetByHandleForUpdate", ctx, "ws_CO_2").Return(p, nil).Once()
	uow.payments.On("Update", ctx, p).Return(nil).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return().Once()
	dispatcher := new(MockDispatcher)

	handler := commands.NewReconcilePaymentCommandHandler(factoryFor(uow), publisher, dispatcher, zap.NewNop())
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, payment.ResultFailed, result.Result)
	assert.Equal(t, payment.Failed, p.Status())
	assert.Equal(t, "Request cancelled by user", *p.FailureReason())
	assert.Equal(t, order.Pending, o.Status())
	assert.False(t, o.IsPaid())
	uow.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	dispatcher.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestReconcilePaymentCommandHandler_AutoPrintFailureIsNotFatal(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t, 25)
	p := newPendingPayment(t, o, "ws_CO_3")

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.payments.On("GetByHandle", ctx, "ws_CO_3").Return(p, nil)
	uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil)
	uow.payments.On("GetByHandleForUpdate", ctx, "ws_CO_3").Return(p, nil)
	uow.payments.On("Update", ctx, p).Return(nil)
	uow.orders.On("Update", ctx, o).Return(nil)

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return()
	dispatcher := new(MockDispatcher)
	dispatcher.On("Handle", ctx, mock.Anything).
		Return(commands.DispatchPrintResult{}, errs.NewUpstreamFailureError("cups", "printer offline")).Once()

	handler := commands.NewReconcilePaymentCommandHandler(factoryFor(uow), publisher, dispatcher, zap.NewNop())
	result, err := handler.Handle(ctx, successCallback(t, "ws_CO_3"))

	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.True(t, o.IsPaid())
	assert.Equal(t, order.Processing, o.Status())
}

// Payment confirmation followed by auto-print through the real dispatcher:
// an instant backend leaves the order printed, a spooler leaves it printing.
func TestReconcilePaymentCommandHandler_AutoPrintByBackendMode(t *testing.T) {
	cases := []struct {
		name      string
		instant   bool
		wantOrder order.Status
		wantJob   printjob.Status
	}{
		{name: "instant backend", instant: true, wantOrder: order.Printed, wantJob: printjob.Completed},
		{name: "spooler backend", instant: false, wantOrder: order.Printing, wantJob: printjob.Printing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			o := newPendingOrder(t, 25)
			p := newPendingPayment(t, o, "ws_CO_4")

			uow := newMockUoW()
			uow.expectTx(ctx)
			uow.payments.On("GetByHandle", ctx, "ws_CO_4").Return(p, nil)
			uow.orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil)
			uow.payments.On("GetByHandleForUpdate", ctx, "ws_CO_4").Return(p, nil)
			uow.payments.On("Update", ctx, p).Return(nil)
			uow.orders.On("Update", ctx, o).Return(nil)
			uow.printJobs.On("Add", ctx, mock.AnythingOfType("*printjob.PrintJob")).Return(nil).Once()

			docs := new(MockDocumentStore)
			docs.On("Exists", ctx, documentPath).Return(true, nil)
			docs.On("Path", documentPath).Return("/srv/uploads/"+documentPath, nil)

			backend := &MockBackend{name: "test"}
			backend.On("Submit", ctx, "/srv/uploads/"+documentPath, 25).
				Return(printjob.Submission{Handle: "HP-15", Backend: "test", Instant: tc.instant}, nil).Once()

			publisher := new(MockPublisher)
			publisher.On("Publish", ctx, mock.Anything).Return()

			factory := factoryFor(uow)
			dispatcher := commands.NewDispatchPrintCommandHandler(factory, backend, docs, publisher, zap.NewNop())
			handler := commands.NewReconcilePaymentCommandHandler(factory, publisher, dispatcher, zap.NewNop())

			_, err := handler.Handle(ctx, successCallback(t, "ws_CO_4"))
			require.NoError(t, err)

			assert.Equal(t, tc.wantOrder, o.Status())
			job := uow.printJobs.Calls[0].Arguments.Get(1).(*printjob.PrintJob)
			assert.Equal(t, tc.wantJob, job.Status())
			if tc.instant {
				assert.NotNil(t, o.PrintedAt())
				assert.Equal(t, 25, o.Items()[0].PrintedCount())
			} else {
				assert.Nil(t, o.PrintedAt())
			}
			backend.AssertExpectations(t)
		})
	}
}
