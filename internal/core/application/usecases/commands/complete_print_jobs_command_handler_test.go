package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
)

func newSpooledJob(t *testing.T, o *order.Order, backend, handle string) *printjob.PrintJob {
	t.Helper()
	item := o.Items()[0]
	job, err := printjob.NewPrintJob(kernel.NewUUID(), o.ID(), item.ID(),
		printjob.Submission{Handle: handle, Backend: backend}, item.Quantity(), fixtureTime)
	require.NoError(t, err)
	require.NoError(t, o.MarkItemPrinting(item.ID(), fixtureTime))
	o.PullEvents()
	return job
}

func TestCompletePrintJobsCommandHandler(t *testing.T) {
	ctx := t.Context()
	done := newPaidOrder(t)
	doneJob := newSpooledJob(t, done, "cups", "HP-15")
	queued := newPaidOrder(t)
	queuedJob := newSpooledJob(t, queued, "cups", "HP-16")
	other := newPaidOrder(t)
	otherJob := newSpooledJob(t, other, "mock", "MOCK-090000")
	broken := newPaidOrder(t)
	brokenJob := newSpooledJob(t, broken, "cups", "HP-17")

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.printJobs.On("ListPrinting", ctx, 20).
		Return([]*printjob.PrintJob{doneJob, queuedJob, otherJob, brokenJob}, nil).Once()
	uow.orders.On("GetForUpdate", ctx, done.ID()).Return(done, nil).Once()
	uow.printJobs.On("Update", ctx, doneJob).Return(nil).Once()
	uow.orders.On("Update", ctx, done).Return(nil).Once()

	backend := &MockBackend{name: "cups"}
	backend.On("JobState", ctx, "HP-15").Return(printjob.BackendDone, nil).Once()
	backend.On("JobState", ctx, "HP-16").Return(printjob.BackendQueued, nil).Once()
	backend.On("JobState", ctx, "HP-17").Return(printjob.BackendUnknown, errors.New("lpstat: not found")).Once()

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return().Once()

	handler := commands.NewCompletePrintJobsCommandHandler(factoryFor(uow), backend, publisher, zap.NewNop())
	cmd, err := commands.NewCompletePrintJobsCommand(20)
	require.NoError(t, err)

	completed, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	assert.Equal(t, printjob.Completed, doneJob.Status())
	assert.Equal(t, order.Printed, done.Status())
	assert.NotNil(t, done.PrintedAt())
	assert.Equal(t, printjob.Printing, queuedJob.Status())
	assert.Equal(t, order.Printing, queued.Status())
	assert.Equal(t, printjob.Printing, otherJob.Status())
	assert.Equal(t, order.Printing, broken.Status())

	backend.AssertNotCalled(t, "JobState", mock.Anything, "MOCK-090000")
	backend.AssertExpectations(t)
	uow.assertRepos(t)
}
