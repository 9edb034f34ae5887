package service

import (
	"context"
	"fmt"
	"time"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

// DefaultPaymentDelay is how long the simulated gateway takes to settle.
const DefaultPaymentDelay = 2 * time.Second

// PaymentTotals are the amounts shown above the payment history.
type PaymentTotals struct {
	TotalPaid     float64 `json:"totalPaid"`
	PendingAmount float64 `json:"pendingAmount"`
}

// PaymentService owns the Payments screen. Settlement callbacks run inside
// scope and are dropped once it closes.
type PaymentService struct {
	payments     *RecordList[model.Payment]
	subscription model.Subscription
	scope        *Scope
	delay        time.Duration
	notifier     Notifier
	now          func() time.Time
}

func NewPaymentService(seed []model.Payment, sub model.Subscription, scope *Scope, delay time.Duration, notifier Notifier, now func() time.Time) *PaymentService {
	if delay <= 0 {
		delay = DefaultPaymentDelay
	}
	if now == nil {
		now = time.Now
	}
	return &PaymentService{
		payments:     NewRecordList(seed),
		subscription: sub,
		scope:        scope,
		delay:        delay,
		notifier:     notifier,
		now:          now,
	}
}

func (s *PaymentService) List() []model.Payment { return s.payments.Snapshot() }

func (s *PaymentService) Subscription() model.Subscription { return s.subscription }

// PayNow starts a payment for a pending or failed invoice. The invoice is
// marked completed once the gateway delay elapses.
func (s *PaymentService) PayNow(ctx context.Context, id string) error {
	p, ok := s.payments.Find(func(p model.Payment) bool { return p.ID == id })
	if !ok {
		return ErrNotFound
	}
	if p.Status == model.PaymentCompleted {
		return fmt.Errorf("payment %s is already completed: %w", id, ErrInvalidTransition)
	}

	select {
	case <-s.scope.Done():
		logger.Warn(ctx, "payment not started, workspace closed", "payment_id", id)
		return ErrScopeClosed
	default:
	}

	notify(ctx, s.notifier, "Redirecting to Payment Gateway", "You will be redirected to complete your payment securely.")

	user := logger.UserFrom(ctx)
	scheduled := s.scope.After(s.delay, func(sctx context.Context) {
		sctx = logger.WithUser(sctx, user)
		if !s.settle(id) {
			logger.Warn(sctx, "payment settled twice or vanished", "payment_id", id)
			return
		}
		logger.Info(sctx, "payment completed", "payment_id", id)
		notify(sctx, s.notifier, "Payment Successful", "Your payment has been processed successfully.")
	})
	if !scheduled {
		logger.Warn(ctx, "payment not scheduled, workspace closed", "payment_id", id)
		return ErrScopeClosed
	}
	return nil
}

func (s *PaymentService) settle(id string) bool {
	settled := false
	today := model.Date(s.now())
	s.payments.Replace(func(cur []model.Payment) []model.Payment {
		for i, p := range cur {
			if p.ID != id || p.Status == model.PaymentCompleted {
				continue
			}
			next := make([]model.Payment, len(cur))
			copy(next, cur)
			p.Status = model.PaymentCompleted
			p.PaidDate = today
			next[i] = p
			settled = true
			return next
		}
		return cur
	})
	return settled
}

func (s *PaymentService) Totals() PaymentTotals {
	var t PaymentTotals
	for _, p := range s.payments.Snapshot() {
		switch p.Status {
		case model.PaymentCompleted:
			t.TotalPaid += p.Amount
		case model.PaymentPending:
			t.PendingAmount += p.Amount
		}
	}
	return t
}

func (s *PaymentService) Unlocked() bool {
	return PaymentsUnlocked(s.payments.Snapshot())
}

func (s *PaymentService) Header() Header {
	status := model.BadgePending
	if s.Unlocked() {
		status = model.BadgeCompleted
	}
	return Header{
		Title:       "Payment Management",
		Description: "Manage your subscription payments and billing",
		CurrentStep: model.StepPayments,
		TotalSteps:  len(model.OnboardingSteps()),
		StepStatus:  status,
		Prev:        &model.NavLink{Label: "Back to Contracts", Path: "/contracts"},
	}
}

func (s *PaymentService) Progress() Progress {
	return screenProgress(model.StepPayments, s.Unlocked())
}
