package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatchat/onboarding/backend/model"
)

type recordingSubmitter struct {
	drafts []model.RegistrationDraft
	err    error
}

func (r *recordingSubmitter) SubmitRegistration(_ context.Context, d model.RegistrationDraft) error {
	if r.err != nil {
		return r.err
	}
	r.drafts = append(r.drafts, d)
	return nil
}

func fillDraft(t *testing.T, w *Wizard) {
	t.Helper()
	_, err := w.SetFields(map[string]string{
		model.FieldBusinessName:    "Acme",
		model.FieldBusinessAddress: "1 Main St",
		model.FieldOwnerName:       "Jane Doe",
		model.FieldEmail:           "jane@acme.test",
		model.FieldContactNumber:   "+63 900 000 0000",
		model.FieldBillingLiaison:  "John Doe",
		model.FieldBillingEmail:    "billing@acme.test",
	})
	require.NoError(t, err)
	_, err = w.Toggle(model.FieldIndustry, "Gadgets & Electronics", true)
	require.NoError(t, err)
	_, err = w.Toggle(model.FieldIndustry, "Food", true)
	require.NoError(t, err)
	_, err = w.Toggle(model.FieldPlatforms, "Shopee", true)
	require.NoError(t, err)
	_, err = w.SelectPlan(model.PlanAnnual)
	require.NoError(t, err)
}

func TestWizardNavigation(t *testing.T) {
	ctx := context.Background()
	w := NewWizard(NewMemoryKVStore(), nil, nil, WizardOptions{})

	st := w.Previous()
	assert.Equal(t, WizardBusinessInfo, st.Step)
	assert.False(t, st.CanGoBack)

	st, err := w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, WizardCategories, st.Step)

	st, err = w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, WizardReview, st.Step)
	assert.True(t, st.CanSubmit)
	assert.Equal(t, 100, st.Percent)

	st, err = w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, WizardReview, st.Step, "next on the last step is a no-op")

	st = w.Previous()
	assert.Equal(t, WizardCategories, st.Step)
	assert.Equal(t, "Business Categories & Platforms", st.Title)
}

func TestWizardEnforcedStepValidation(t *testing.T) {
	ctx := context.Background()
	q := NewNotificationQueue(10)
	w := NewWizard(NewMemoryKVStore(), q, nil, WizardOptions{EnforceStepValidation: true})

	st, err := w.Next(ctx)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, model.FieldBusinessName)
	assert.Equal(t, WizardBusinessInfo, st.Step)

	notes := q.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, model.SeverityDestructive, notes[0].Severity)

	fillDraft(t, w)
	st, err = w.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, WizardCategories, st.Step)
}

func TestWizardSetFieldsIsAtomic(t *testing.T) {
	w := NewWizard(NewMemoryKVStore(), nil, nil, WizardOptions{})

	_, err := w.SetFields(map[string]string{
		model.FieldBusinessName: "Acme",
		"favouriteColour":       "blue",
	})
	require.Error(t, err)
	assert.Empty(t, w.Snapshot().Draft.BusinessName)
}

func TestWizardToggleIsIdempotent(t *testing.T) {
	w := NewWizard(NewMemoryKVStore(), nil, nil, WizardOptions{})

	_, err := w.Toggle(model.FieldPlatforms, "Lazada", true)
	require.NoError(t, err)
	st, err := w.Toggle(model.FieldPlatforms, "Lazada", true)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Draft.Platforms.Len())

	st, err = w.Toggle(model.FieldPlatforms, "Lazada", false)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Draft.Platforms.Len())

	_, err = w.Toggle(model.FieldPlatforms, "eBay", true)
	require.Error(t, err)
}

func TestWizardDraftRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()
	w := NewWizard(store, nil, nil, WizardOptions{})
	fillDraft(t, w)
	saved := w.Snapshot().Draft

	require.NoError(t, w.SaveDraft(ctx))

	fresh := NewWizard(store, nil, nil, WizardOptions{})
	loaded, err := fresh.LoadDraft(ctx)
	require.NoError(t, err)
	require.True(t, loaded)

	got := fresh.Snapshot().Draft
	assert.True(t, saved.Equal(got), "saved %+v, loaded %+v", saved, got)
}

func TestWizardLoadWithoutDraftKeepsForm(t *testing.T) {
	ctx := context.Background()
	q := NewNotificationQueue(10)
	w := NewWizard(NewMemoryKVStore(), q, nil, WizardOptions{})
	_, err := w.SetFields(map[string]string{model.FieldBusinessName: "In Progress"})
	require.NoError(t, err)

	loaded, err := w.LoadDraft(ctx)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, "In Progress", w.Snapshot().Draft.BusinessName)
	assert.Zero(t, q.Pending(), "missing draft is silent")
}

func TestWizardIgnoresUnreadableDraft(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()
	require.NoError(t, store.Set(ctx, DraftKey, []byte(`{"subscriptionPlan":"lifetime"}`)))

	w := NewWizard(store, nil, nil, WizardOptions{})
	_, err := w.SetFields(map[string]string{model.FieldBusinessName: "Keep"})
	require.NoError(t, err)

	loaded, err := w.LoadDraft(ctx)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, "Keep", w.Snapshot().Draft.BusinessName)
}

func TestWizardSaveReloadScenario(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()

	w := NewWizard(store, nil, nil, WizardOptions{})
	st := w.Snapshot()
	require.Equal(t, WizardBusinessInfo, st.Step)
	require.True(t, st.Draft.Equal(model.NewRegistrationDraft()))

	_, err := w.SetFields(map[string]string{model.FieldBusinessName: "Acme"})
	require.NoError(t, err)
	require.NoError(t, w.SaveDraft(ctx))

	reloaded := NewWizard(store, nil, nil, WizardOptions{})
	_, err = reloaded.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", reloaded.Snapshot().Draft.BusinessName)
}

func TestWizardSubmit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()
	q := NewNotificationQueue(10)
	sub := &recordingSubmitter{}
	w := NewWizard(store, q, sub, WizardOptions{})

	_, err := w.Submit(ctx)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, sub.drafts)
	q.Drain()

	fillDraft(t, w)
	require.NoError(t, w.SaveDraft(ctx))
	_, _ = w.Next(ctx)
	_, _ = w.Next(ctx)

	st, err := w.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, sub.drafts, 1)
	assert.Equal(t, "Acme", sub.drafts[0].BusinessName)

	assert.True(t, st.Submitted)
	assert.Equal(t, WizardBusinessInfo, st.Step)
	assert.Empty(t, st.Draft.BusinessName)

	_, found, err := store.Get(ctx, DraftKey)
	require.NoError(t, err)
	assert.False(t, found, "submit clears the saved draft")

	titles := []string{}
	for _, n := range q.Drain() {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Registration Submitted")
}

func TestWizardSubmitFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()
	w := NewWizard(store, nil, &recordingSubmitter{err: errors.New("backend down")}, WizardOptions{})
	fillDraft(t, w)
	require.NoError(t, w.SaveDraft(ctx))

	_, err := w.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, "Acme", w.Snapshot().Draft.BusinessName)

	_, found, err := store.Get(ctx, DraftKey)
	require.NoError(t, err)
	assert.True(t, found)
}
