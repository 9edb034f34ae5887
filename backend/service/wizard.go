package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

// DraftKey is the fixed key the registration draft is saved under.
const DraftKey = "registrationDraft"

// Wizard steps.
const (
	WizardBusinessInfo = 1
	WizardCategories   = 2
	WizardReview       = 3

	WizardSteps = 3
)

var wizardCopy = map[int]struct{ title, description string }{
	WizardBusinessInfo: {"Business Information", "Enter your business details and contact information"},
	WizardCategories:   {"Business Categories & Platforms", "Select your industry categories and e-commerce platforms"},
	WizardReview:       {"Review & Submit", "Review your information and submit your registration"},
}

// RegistrationSubmitter receives completed registrations.
type RegistrationSubmitter interface {
	SubmitRegistration(ctx context.Context, draft model.RegistrationDraft) error
}

type WizardOptions struct {
	// EnforceStepValidation blocks Next until the current step's required
	// fields are filled. Submit always validates.
	EnforceStepValidation bool
}

// Wizard is the three-step registration form.
type Wizard struct {
	mu        sync.Mutex
	step      int
	draft     model.RegistrationDraft
	submitted bool

	store     KVStore
	notifier  Notifier
	submitter RegistrationSubmitter
	opts      WizardOptions
}

func NewWizard(store KVStore, notifier Notifier, submitter RegistrationSubmitter, opts WizardOptions) *Wizard {
	return &Wizard{
		step:      WizardBusinessInfo,
		draft:     model.NewRegistrationDraft(),
		store:     store,
		notifier:  notifier,
		submitter: submitter,
		opts:      opts,
	}
}

// WizardState is a read-only snapshot of the wizard.
type WizardState struct {
	Step        int                     `json:"currentStep"`
	TotalSteps  int                     `json:"totalSteps"`
	Percent     int                     `json:"percent"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	StepLabels  []string                `json:"stepLabels"`
	CanGoBack   bool                    `json:"canGoBack"`
	CanSubmit   bool                    `json:"canSubmit"`
	Submitted   bool                    `json:"submitted"`
	Draft       model.RegistrationDraft `json:"draft"`
	Industries  []string                `json:"industryOptions"`
	Platforms   []string                `json:"platformOptions"`
}

func (w *Wizard) Snapshot() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Wizard) snapshotLocked() WizardState {
	c := wizardCopy[w.step]
	return WizardState{
		Step:        w.step,
		TotalSteps:  WizardSteps,
		Percent:     w.step * 100 / WizardSteps,
		Title:       c.title,
		Description: c.description,
		StepLabels:  []string{"Business Info", "Categories", "Review & Submit"},
		CanGoBack:   w.step > WizardBusinessInfo,
		CanSubmit:   w.step == WizardReview,
		Submitted:   w.submitted,
		Draft:       w.draft.Clone(),
		Industries:  model.IndustryOptions,
		Platforms:   model.PlatformOptions,
	}
}

// Next advances one step. It is a no-op on the review step.
func (w *Wizard) Next(ctx context.Context) (WizardState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step >= WizardReview {
		return w.snapshotLocked(), nil
	}
	if w.opts.EnforceStepValidation {
		if err := w.draft.ValidateStep(w.step); err != nil {
			notifyFailure(ctx, w.notifier, err)
			return w.snapshotLocked(), err
		}
	}
	w.step++
	return w.snapshotLocked(), nil
}

// Previous goes back one step. It is a no-op on the first step.
func (w *Wizard) Previous() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > WizardBusinessInfo {
		w.step--
	}
	return w.snapshotLocked()
}

// SetFields assigns scalar text fields. Either every field is applied or,
// on an unknown field, none is.
func (w *Wizard) SetFields(fields map[string]string) (WizardState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.draft.Clone()
	for name, value := range fields {
		if err := next.SetField(name, value); err != nil {
			return w.snapshotLocked(), err
		}
	}
	w.draft = next
	w.submitted = false
	return w.snapshotLocked(), nil
}

// Toggle checks or unchecks a multi-select option.
func (w *Wizard) Toggle(field, option string, on bool) (WizardState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.draft.Clone()
	if err := next.Toggle(field, option, on); err != nil {
		return w.snapshotLocked(), err
	}
	w.draft = next
	w.submitted = false
	return w.snapshotLocked(), nil
}

// SelectPlan chooses the subscription plan.
func (w *Wizard) SelectPlan(plan model.SubscriptionPlan) (WizardState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !plan.Valid() {
		return w.snapshotLocked(), model.NewValidationError("Unknown Plan", "not a subscription plan", string(plan))
	}
	w.draft.SubscriptionPlan = plan
	w.submitted = false
	return w.snapshotLocked(), nil
}

// SaveDraft writes the current form to the draft slot, overwriting any
// earlier draft.
func (w *Wizard) SaveDraft(ctx context.Context) error {
	w.mu.Lock()
	draft := w.draft.Clone()
	w.mu.Unlock()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := w.store.Set(ctx, DraftKey, data); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	notify(ctx, w.notifier, "Draft Saved", "Your registration progress has been saved.")
	return nil
}

// LoadDraft replaces the form with the saved draft. A missing or unreadable
// draft leaves the form untouched and reports loaded=false.
func (w *Wizard) LoadDraft(ctx context.Context) (loaded bool, err error) {
	data, found, err := w.store.Get(ctx, DraftKey)
	if err != nil {
		return false, fmt.Errorf("failed to read draft: %w", err)
	}
	if !found {
		return false, nil
	}

	draft := model.NewRegistrationDraft()
	if err := json.Unmarshal(data, &draft); err != nil {
		// Drafts are unversioned; one written by an older format is ignored.
		logger.Warn(ctx, "ignoring unreadable registration draft", "error", err)
		return false, nil
	}

	w.mu.Lock()
	w.draft = draft.Clone()
	w.submitted = false
	w.mu.Unlock()

	notify(ctx, w.notifier, "Draft Loaded", "Your previous registration progress has been loaded.")
	return true, nil
}

// Submit validates the form, hands it to the submitter, deletes the saved
// draft and resets the wizard to an empty first step.
func (w *Wizard) Submit(ctx context.Context) (WizardState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.draft.Validate(); err != nil {
		notifyFailure(ctx, w.notifier, err)
		return w.snapshotLocked(), err
	}

	if w.submitter != nil {
		if err := w.submitter.SubmitRegistration(ctx, w.draft.Clone()); err != nil {
			return w.snapshotLocked(), fmt.Errorf("failed to submit registration: %w", err)
		}
	}

	if err := w.store.Delete(ctx, DraftKey); err != nil {
		logger.Warn(ctx, "failed to delete registration draft", "error", err)
	}

	notify(ctx, w.notifier, "Registration Submitted", "Your business registration has been submitted for review.")

	w.step = WizardBusinessInfo
	w.draft = model.NewRegistrationDraft()
	w.submitted = true
	return w.snapshotLocked(), nil
}
