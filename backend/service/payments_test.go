package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatchat/onboarding/backend/model"
)

const testPaymentDelay = 20 * time.Millisecond

func newSeededPayments(t *testing.T, scope *Scope, n Notifier) *PaymentService {
	t.Helper()
	seed, err := DefaultSeed()
	require.NoError(t, err)
	return NewPaymentService(seed.Payments, seed.Subscription, scope, testPaymentDelay, n, time.Now)
}

func paymentStatus(s *PaymentService, id string) (model.Payment, bool) {
	for _, p := range s.List() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Payment{}, false
}

func TestPayNowCompletesAfterDelay(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()
	q := NewNotificationQueue(10)
	svc := newSeededPayments(t, scope, q)

	p, ok := paymentStatus(svc, "PAY002")
	require.True(t, ok)
	require.Equal(t, model.PaymentPending, p.Status)

	require.NoError(t, svc.PayNow(context.Background(), "PAY002"))

	p, _ = paymentStatus(svc, "PAY002")
	assert.Equal(t, model.PaymentPending, p.Status, "settles only after the gateway delay")

	require.Eventually(t, func() bool {
		p, _ := paymentStatus(svc, "PAY002")
		return p.Status == model.PaymentCompleted
	}, time.Second, 5*time.Millisecond)

	p, _ = paymentStatus(svc, "PAY002")
	assert.Equal(t, model.Date(time.Now()), p.PaidDate)

	require.Eventually(t, func() bool { return q.Pending() == 2 }, time.Second, 5*time.Millisecond)
	notes := q.Drain()
	assert.Equal(t, "Redirecting to Payment Gateway", notes[0].Title)
	assert.Equal(t, "Payment Successful", notes[1].Title)
}

func TestPayNowRetriesFailedPayment(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()
	svc := newSeededPayments(t, scope, nil)

	require.NoError(t, svc.PayNow(context.Background(), "PAY003"))
	require.Eventually(t, func() bool {
		p, _ := paymentStatus(svc, "PAY003")
		return p.Status == model.PaymentCompleted
	}, time.Second, 5*time.Millisecond)
}

func TestPayNowRejectsCompletedAndUnknown(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()
	svc := newSeededPayments(t, scope, nil)

	assert.ErrorIs(t, svc.PayNow(context.Background(), "PAY001"), ErrInvalidTransition)
	assert.ErrorIs(t, svc.PayNow(context.Background(), "PAY404"), ErrNotFound)
}

func TestPayNowCancelledByTeardown(t *testing.T) {
	scope := NewScope(context.Background())
	q := NewNotificationQueue(10)
	svc := newSeededPayments(t, scope, q)

	require.NoError(t, svc.PayNow(context.Background(), "PAY002"))
	scope.Close()

	time.Sleep(3 * testPaymentDelay)
	p, _ := paymentStatus(svc, "PAY002")
	assert.Equal(t, model.PaymentPending, p.Status)
	assert.Equal(t, 1, q.Pending(), "only the redirect notice was sent")

	err := svc.PayNow(context.Background(), "PAY002")
	assert.ErrorIs(t, err, ErrScopeClosed)
	assert.Equal(t, 1, q.Pending(), "no redirect notice once the workspace is closed")
}

func TestPaymentTotalsAndGate(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()
	svc := newSeededPayments(t, scope, nil)

	totals := svc.Totals()
	assert.InDelta(t, 99.99, totals.TotalPaid, 0.001)
	assert.InDelta(t, 29.99, totals.PendingAmount, 0.001)

	assert.True(t, svc.Unlocked())
	assert.Equal(t, model.BadgeCompleted, svc.Header().StepStatus)
	assert.Nil(t, svc.Header().Next)
	assert.Equal(t, "Annual Subscription", svc.Subscription().Plan)

	empty := NewPaymentService(nil, model.Subscription{}, scope, 0, nil, nil)
	assert.False(t, empty.Unlocked())
	assert.Equal(t, model.BadgePending, empty.Header().StepStatus)
}
