package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

// ManualPaymentInput is the admin form. Amount is kept as typed so an empty
// field can be told apart from zero.
type ManualPaymentInput struct {
	BusinessID string `json:"businessId"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
}

// ManualPaymentSummary totals the recorded cheques.
type ManualPaymentSummary struct {
	Count      int     `json:"count"`
	Total      float64 `json:"total"`
	Businesses int     `json:"businesses"`
}

// AdminPaymentService records post-dated cheques against known businesses.
type AdminPaymentService struct {
	businesses []model.Business
	payments   *RecordList[model.ManualPayment]
	notifier   Notifier
	now        func() time.Time
}

func NewAdminPaymentService(businesses []model.Business, notifier Notifier, now func() time.Time) *AdminPaymentService {
	if now == nil {
		now = time.Now
	}
	return &AdminPaymentService{
		businesses: append([]model.Business(nil), businesses...),
		payments:   NewRecordList[model.ManualPayment](nil),
		notifier:   notifier,
		now:        now,
	}
}

func (s *AdminPaymentService) Businesses() []model.Business { return s.businesses }

func (s *AdminPaymentService) List() []model.ManualPayment { return s.payments.Snapshot() }

// AddPayment records a cheque. Every field is required; an unknown business
// is ignored and reported as added=false.
func (s *AdminPaymentService) AddPayment(ctx context.Context, in ManualPaymentInput, addedBy string) (p model.ManualPayment, added bool, err error) {
	var missing []string
	if strings.TrimSpace(in.Amount) == "" {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(in.BusinessID) == "" {
		missing = append(missing, "businessId")
	}
	if len(missing) > 0 {
		err := model.NewValidationError("Missing Information", "please fill in all fields before adding a payment", missing...)
		notifyFailure(ctx, s.notifier, err)
		return model.ManualPayment{}, false, err
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(in.Amount), 64)
	if err != nil || amount <= 0 {
		verr := model.NewValidationError("Invalid Amount", "amount must be a positive number", "amount")
		notifyFailure(ctx, s.notifier, verr)
		return model.ManualPayment{}, false, verr
	}
	if _, err := time.Parse(model.DateFormat, in.Date); err != nil {
		verr := model.NewValidationError("Invalid Date", "date must be YYYY-MM-DD", "date")
		notifyFailure(ctx, s.notifier, verr)
		return model.ManualPayment{}, false, verr
	}

	var business *model.Business
	for i := range s.businesses {
		if s.businesses[i].ID == in.BusinessID {
			business = &s.businesses[i]
			break
		}
	}
	if business == nil {
		logger.Warn(ctx, "manual payment for unknown business ignored", "business_id", in.BusinessID)
		return model.ManualPayment{}, false, nil
	}

	if addedBy == "" {
		addedBy = "Admin User"
	}
	p = model.ManualPayment{
		ID:           uuid.New().String(),
		BusinessID:   business.ID,
		BusinessName: business.Name,
		Amount:       amount,
		Date:         in.Date,
		AddedBy:      addedBy,
		AddedAt:      s.now(),
	}
	s.payments.Prepend(p)

	logger.Info(ctx, "manual payment recorded", "payment_id", p.ID, "business_id", p.BusinessID, "amount", p.Amount)
	notify(ctx, s.notifier, "Payment Added", fmt.Sprintf("Payment of $%s for %s has been recorded.", strings.TrimSpace(in.Amount), business.Name))
	return p, true, nil
}

func (s *AdminPaymentService) Summary() ManualPaymentSummary {
	payments := s.payments.Snapshot()
	seen := make(map[string]struct{}, len(payments))
	sum := ManualPaymentSummary{Count: len(payments)}
	for _, p := range payments {
		sum.Total += p.Amount
		seen[p.BusinessID] = struct{}{}
	}
	sum.Businesses = len(seen)
	return sum
}
