package payment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/domain/model/payment"
)

var now = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	phone, err := kernel.NewPhone("0712345678")
	require.NoError(t, err)
	customer, err := order.NewCustomer("Otieno Ouma", phone, nil)
	require.NoError(t, err)
	address, err := order.NewAddress("Moi Avenue, Bazaar Plaza 2nd floor", "nairobi")
	require.NoError(t, err)
	doc := "doc.pdf"
	item, err := order.NewItem(kernel.NewUUID(), 10, 400, order.Artifacts{FrontImage: "front.png", Document: &doc})
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewOrderNumber(now), customer, address,
		[]*order.Item{item}, 300, 0, now)
	require.NoError(t, err)
	return o
}

func newPayment(t *testing.T, o *order.Order, handle string) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), handle, nil, payment.MethodMpesa,
		o.Customer().Phone(), o.Total(), now)
	require.NoError(t, err)
	return p
}

func success(handle string) payment.Outcome {
	return payment.Outcome{Handle: handle, Result: payment.ResultSucceeded, Receipt: "QK12AB34CD"}
}

func TestReconcile_Success(t *testing.T) {
	o := newOrder(t)
	p := newPayment(t, o, "ws_CO_1")

	rec, err := payment.Reconcile(p, o, success("ws_CO_1"), now)

	require.NoError(t, err)
	assert.True(t, rec.Applied)
	assert.True(t, rec.Has(payment.EffectDispatchPrint))
	assert.Equal(t, payment.Completed, p.Status())
	assert.Equal(t, "QK12AB34CD", *p.Receipt())
	assert.Equal(t, order.Processing, o.Status())
	assert.True(t, o.IsPaid())
	assert.Equal(t, now, *o.PaidAt())

	var types []events.Type
	for _, e := range o.PullEvents() {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, events.PaymentConfirmed)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	o := newOrder(t)
	p := newPayment(t, o, "ws_CO_1")
	_, err := payment.Reconcile(p, o, success("ws_CO_1"), now)
	require.NoError(t, err)
	o.PullEvents()
	completedAt := *p.CompletedAt()

	rec, err := payment.Reconcile(p, o, success("ws_CO_1"), now.Add(time.Minute))

	require.NoError(t, err)
	assert.False(t, rec.Applied)
	assert.Empty(t, rec.Effects)
	assert.Equal(t, payment.Completed, p.Status())
	assert.Equal(t, completedAt, *p.CompletedAt())
	assert.Equal(t, now, *o.PaidAt())
	assert.Empty(t, o.PullEvents())
}

func TestReconcile_Failure(t *testing.T) {
	o := newOrder(t)
	p := newPayment(t, o, "ws_CO_1")

	rec, err := payment.Reconcile(p, o, payment.Outcome{
		Handle: "ws_CO_1",
		Result: payment.ResultFailed,
		Reason: "Request cancelled by user",
	}, now)

	require.NoError(t, err)
	assert.True(t, rec.Applied)
	assert.Empty(t, rec.Effects)
	assert.Equal(t, payment.Failed, p.Status())
	assert.Equal(t, "Request cancelled by user", *p.FailureReason())
	assert.Equal(t, order.Pending, o.Status())
	assert.False(t, o.IsPaid())

	t.Run("a late success after failure is ignored", func(t *testing.T) {
		rec, err := payment.Reconcile(p, o, success("ws_CO_1"), now)

		require.NoError(t, err)
		assert.False(t, rec.Applied)
		assert.Equal(t, payment.Failed, p.Status())
		assert.False(t, o.IsPaid())
	})
}

func TestReconcile_PendingOutcomeIsNoop(t *testing.T) {
	o := newOrder(t)
	p := newPayment(t, o, "ws_CO_1")

	rec, err := payment.Reconcile(p, o, payment.Outcome{Handle: "ws_CO_1", Result: payment.ResultPending}, now)

	require.NoError(t, err)
	assert.False(t, rec.Applied)
	assert.Equal(t, payment.Pending, p.Status())
}

func TestReconcile_SecondAttemptOnPaidOrderIsFailed(t *testing.T) {
	o := newOrder(t)
	first := newPayment(t, o, "ws_CO_1")
	second := newPayment(t, o, "ws_CO_2")
	_, err := payment.Reconcile(first, o, success("ws_CO_1"), now)
	require.NoError(t, err)

	rec, err := payment.Reconcile(second, o, success("ws_CO_2"), now.Add(time.Minute))

	require.NoError(t, err)
	assert.True(t, rec.Applied)
	assert.Empty(t, rec.Effects)
	assert.Equal(t, payment.Failed, second.Status())
	assert.Equal(t, payment.ReasonAlreadyPaid, *second.FailureReason())
	assert.Equal(t, "QK12AB34CD", *o.PaymentReference())
	assert.Equal(t, now, *o.PaidAt())
}

func TestReconcile_ShortAmountIsRejected(t *testing.T) {
	o := newOrder(t)
	p := newPayment(t, o, "ws_CO_1")
	paid := o.Total() - 1
	outcome := success("ws_CO_1")
	outcome.Amount = &paid

	rec, err := payment.Reconcile(p, o, outcome, now)

	require.NoError(t, err)
	assert.Equal(t, payment.ResultFailed, rec.Result)
	assert.Equal(t, payment.Failed, p.Status())
	assert.Contains(t, *p.FailureReason(), "amount mismatch")
	assert.False(t, o.IsPaid())
}

func TestReconcile_CancelledOrderSkipsPrint(t *testing.T) {
	o := newOrder(t)
	require.NoError(t, o.Cancel(now))
	p := newPayment(t, o, "ws_CO_1")

	rec, err := payment.Reconcile(p, o, success("ws_CO_1"), now)

	require.NoError(t, err)
	assert.True(t, rec.Applied)
	assert.False(t, rec.Has(payment.EffectDispatchPrint))
	assert.Equal(t, order.Cancelled, o.Status())
}

func TestReconcile_MissingReceiptFallsBackToHandle(t *testing.T) {
	o := newOrder(t)
	p := newPayment(t, o, "ws_CO_1")

	_, err := payment.Reconcile(p, o, payment.Outcome{Handle: "ws_CO_1", Result: payment.ResultSucceeded}, now)

	require.NoError(t, err)
	assert.Nil(t, p.Receipt())
	assert.Equal(t, "ws_CO_1", *o.PaymentReference())
}

func TestReconcile_RejectsForeignOrder(t *testing.T) {
	o := newOrder(t)
	other := newOrder(t)
	p := newPayment(t, other, "ws_CO_1")

	_, err := payment.Reconcile(p, o, success("ws_CO_1"), now)

	require.Error(t, err)
	assert.Equal(t, payment.Pending, p.Status())
}

func TestPayment_Expire(t *testing.T) {
	o := newOrder(t)
	p := newPayment(t, o, "ws_CO_1")

	assert.Equal(t, 1, p.RecordPollAttempt())
	assert.Equal(t, 2, p.RecordPollAttempt())
	assert.True(t, p.Expire(now))
	assert.Equal(t, payment.ReasonTimedOut, *p.FailureReason())
	assert.False(t, p.Expire(now), "terminal payments do not expire twice")
}

func TestReconcile_LateSuccessAfterTimeoutIsApplied(t *testing.T) {
	o := newOrder(t)
	p := newPayment(t, o, "ws_CO_1")
	require.True(t, p.Expire(now))

	rec, err := payment.Reconcile(p, o, success("ws_CO_1"), now.Add(10*time.Minute))

	require.NoError(t, err)
	assert.True(t, rec.Applied)
	assert.True(t, rec.Has(payment.EffectDispatchPrint))
	assert.Equal(t, payment.Completed, p.Status())
	assert.Nil(t, p.FailureReason())
	assert.True(t, o.IsPaid())
	assert.Equal(t, order.Processing, o.Status())
}

func TestReconcile_LateOutcomesAfterTimeout(t *testing.T) {
	t.Run("failure keeps the timeout", func(t *testing.T) {
		o := newOrder(t)
		p := newPayment(t, o, "ws_CO_1")
		require.True(t, p.Expire(now))

		rec, err := payment.Reconcile(p, o, payment.Outcome{Handle: "ws_CO_1", Result: payment.ResultFailed, Reason: "cancelled"}, now)

		require.NoError(t, err)
		assert.False(t, rec.Applied)
		assert.Equal(t, payment.ReasonTimedOut, *p.FailureReason())
	})

	t.Run("success on an order paid by another attempt", func(t *testing.T) {
		o := newOrder(t)
		expired := newPayment(t, o, "ws_CO_1")
		other := newPayment(t, o, "ws_CO_2")
		require.True(t, expired.Expire(now))
		_, err := payment.Reconcile(other, o, success("ws_CO_2"), now)
		require.NoError(t, err)

		rec, err := payment.Reconcile(expired, o, success("ws_CO_1"), now.Add(time.Minute))

		require.NoError(t, err)
		assert.False(t, rec.Applied)
		assert.Equal(t, payment.Failed, expired.Status())
		assert.Equal(t, payment.ReasonTimedOut, *expired.FailureReason())
	})

	t.Run("gateway failure is final", func(t *testing.T) {
		o := newOrder(t)
		p := newPayment(t, o, "ws_CO_1")
		_, err := payment.Reconcile(p, o, payment.Outcome{Handle: "ws_CO_1", Result: payment.ResultFailed, Reason: "Transaction cancelled by user"}, now)
		require.NoError(t, err)

		rec, err := payment.Reconcile(p, o, success("ws_CO_1"), now.Add(time.Minute))

		require.NoError(t, err)
		assert.False(t, rec.Applied)
		assert.False(t, o.IsPaid())
	})
}

func TestNewPayment_Validation(t *testing.T) {
	o := newOrder(t)

	_, err := payment.NewPayment(kernel.NewUUID(), o.ID(), " ", nil, "", o.Customer().Phone(), 0, now)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "checkout_request_id")
	assert.Contains(t, err.Error(), "amount")
}

func TestParseStatus(t *testing.T) {
	for _, s := range []payment.Status{payment.Pending, payment.Completed, payment.Failed} {
		parsed, err := payment.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := payment.ParseStatus("refunded")
	require.Error(t, err)
}
