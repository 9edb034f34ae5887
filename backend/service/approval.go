package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

// resolvedShown caps the approved and rejected columns.
const resolvedShown = 4

// ApplicationBoard groups applications for the finance review screen.
type ApplicationBoard struct {
	Pending  []model.Application `json:"pending"`
	Approved []model.Application `json:"approved"`
	Rejected []model.Application `json:"rejected"`
}

// ApprovalService owns the finance review of submitted registrations.
type ApprovalService struct {
	apps     *RecordList[model.Application]
	docCount func() int
	notifier Notifier
	now      func() time.Time
}

// NewApprovalService creates the service. docCount, when set, reports how
// many documents a new submission carries.
func NewApprovalService(seed []model.Application, docCount func() int, notifier Notifier, now func() time.Time) *ApprovalService {
	if now == nil {
		now = time.Now
	}
	return &ApprovalService{
		apps:     NewRecordList(seed),
		docCount: docCount,
		notifier: notifier,
		now:      now,
	}
}

func (s *ApprovalService) List() []model.Application { return s.apps.Snapshot() }

func (s *ApprovalService) Board() ApplicationBoard {
	b := ApplicationBoard{
		Pending:  []model.Application{},
		Approved: []model.Application{},
		Rejected: []model.Application{},
	}
	for _, a := range s.apps.Snapshot() {
		switch a.Status {
		case model.ApplicationPending:
			b.Pending = append(b.Pending, a)
		case model.ApplicationApproved:
			if len(b.Approved) < resolvedShown {
				b.Approved = append(b.Approved, a)
			}
		case model.ApplicationRejected:
			if len(b.Rejected) < resolvedShown {
				b.Rejected = append(b.Rejected, a)
			}
		}
	}
	return b
}

// SubmitRegistration files a completed registration as a pending application.
func (s *ApprovalService) SubmitRegistration(ctx context.Context, draft model.RegistrationDraft) error {
	docs := 0
	if s.docCount != nil {
		docs = s.docCount()
	}
	var app model.Application
	s.apps.Replace(func(cur []model.Application) []model.Application {
		app = model.Application{
			ID:             fmt.Sprintf("APP%03d", len(cur)+1),
			BusinessName:   draft.BusinessName,
			OwnerName:      draft.OwnerName,
			SubmissionDate: model.Date(s.now()),
			Status:         model.ApplicationPending,
			Documents:      docs,
		}
		next := make([]model.Application, 0, len(cur)+1)
		next = append(next, app)
		return append(next, cur...)
	})
	logger.Info(ctx, "application filed", "application_id", app.ID, "business", app.BusinessName)
	return nil
}

// Approve moves a pending application to approved. Remarks are optional.
func (s *ApprovalService) Approve(ctx context.Context, id, remarks string) (model.Application, error) {
	app, err := s.resolve(id, model.ApplicationApproved, remarks)
	if err != nil {
		return app, err
	}
	logger.Info(ctx, "application approved", "application_id", id)
	notify(ctx, s.notifier, "Application Approved", "The application has been approved and the user will be notified.")
	return app, nil
}

// Reject moves a pending application to rejected. Remarks are required and
// stored verbatim.
func (s *ApprovalService) Reject(ctx context.Context, id, remarks string) (model.Application, error) {
	if strings.TrimSpace(remarks) == "" {
		err := model.NewValidationError("Remarks Required", "please provide mandatory remarks for rejection", "remarks")
		notifyFailure(ctx, s.notifier, err)
		return model.Application{}, err
	}
	app, err := s.resolve(id, model.ApplicationRejected, remarks)
	if err != nil {
		return app, err
	}
	logger.Info(ctx, "application rejected", "application_id", id)
	notify(ctx, s.notifier, "Application Rejected", "The application has been rejected and the user will be notified.")
	return app, nil
}

func (s *ApprovalService) resolve(id string, to model.ApplicationStatus, remarks string) (model.Application, error) {
	var (
		out model.Application
		err = ErrNotFound
	)
	today := model.Date(s.now())
	s.apps.Replace(func(cur []model.Application) []model.Application {
		for i, a := range cur {
			if a.ID != id {
				continue
			}
			if a.Status.Terminal() {
				err = fmt.Errorf("application %s is %s: %w", id, a.Status, ErrInvalidTransition)
				return cur
			}
			next := make([]model.Application, len(cur))
			copy(next, cur)
			a.Status = to
			a.Remarks = remarks
			a.ResolvedDate = today
			next[i] = a
			out, err = a, nil
			return next
		}
		return cur
	})
	return out, err
}

// Pending returns the number of applications waiting for review.
func (s *ApprovalService) Pending() int {
	n := 0
	for _, a := range s.apps.Snapshot() {
		if a.Status == model.ApplicationPending {
			n++
		}
	}
	return n
}
