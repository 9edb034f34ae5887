package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatchat/onboarding/backend/model"
)

func TestScopeRunsCallback(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()

	var ran atomic.Bool
	require.True(t, scope.After(5*time.Millisecond, func(context.Context) { ran.Store(true) }))
	require.Eventually(t, ran.Load, time.Second, time.Millisecond)
}

func TestScopeCloseCancelsPending(t *testing.T) {
	scope := NewScope(context.Background())

	var ran atomic.Bool
	scope.After(50*time.Millisecond, func(context.Context) { ran.Store(true) })
	scope.Close()
	scope.Close()

	select {
	case <-scope.Done():
	default:
		t.Fatal("Done should be closed")
	}
	time.Sleep(80 * time.Millisecond)
	assert.False(t, ran.Load())
	assert.False(t, scope.After(time.Millisecond, func(context.Context) { ran.Store(true) }))
}

func TestScopeCloseWaitsForRunningCallback(t *testing.T) {
	scope := NewScope(context.Background())
	started := make(chan struct{})
	var finished atomic.Bool

	scope.After(0, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		finished.Store(true)
	})
	<-started
	scope.Close()
	assert.True(t, finished.Load())
}

func TestNotificationQueue(t *testing.T) {
	q := NewNotificationQueue(2)
	ctx := context.Background()

	assert.Empty(t, q.Drain())

	q.Notify(ctx, model.Notification{Title: "one"})
	q.Notify(ctx, model.Notification{Title: "two"})
	q.Notify(ctx, model.Notification{Title: "three", Severity: model.SeverityDestructive})
	assert.Equal(t, 2, q.Pending())

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Title, "oldest is dropped")
	assert.Equal(t, model.SeverityDefault, got[0].Severity)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, model.SeverityDestructive, got[1].Severity)
	assert.Zero(t, q.Pending())
}

func TestNotifyFailureOnlyForValidation(t *testing.T) {
	q := NewNotificationQueue(10)
	ctx := context.Background()

	notifyFailure(ctx, q, assert.AnError)
	assert.Zero(t, q.Pending())

	notifyFailure(ctx, q, model.NewValidationError("", "bad input", "name"))
	got := q.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, "Validation Failed", got[0].Title)
	assert.Equal(t, "bad input: name", got[0].Description)

	notifyFailure(ctx, nil, model.NewValidationError("x", "y"))
}

func TestMemoryKVStoreAndNamespace(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte("v1")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'x'
	got, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v1", string(got), "stored values are copied")

	ns := Namespace(store, "drafts/a/")
	require.NoError(t, ns.Set(ctx, "k", []byte("scoped")))
	got, _, _ = store.Get(ctx, "drafts/a/k")
	assert.Equal(t, "scoped", string(got))
	got, _, _ = ns.Get(ctx, "k")
	assert.Equal(t, "scoped", string(got))

	require.NoError(t, ns.Delete(ctx, "k"))
	require.NoError(t, ns.Delete(ctx, "k"))
	assert.Equal(t, 1, store.Len())
}

func TestRecordListSnapshotsStayValid(t *testing.T) {
	l := NewRecordList([]int{1, 2, 3})
	before := l.Snapshot()

	l.Map(func(v int) int { return v * 10 })
	removed := l.Filter(func(v int) bool { return v != 20 })
	l.Prepend(0)
	old, replaced := l.Upsert(func(v int) bool { return v == 30 }, 31)
	_, appended := l.Upsert(func(v int) bool { return v == 99 }, 99)

	assert.Equal(t, []int{1, 2, 3}, before)
	assert.Equal(t, 1, removed)
	assert.True(t, replaced)
	assert.Equal(t, 30, old)
	assert.False(t, appended)
	assert.Equal(t, []int{0, 10, 31, 99}, l.Snapshot())
	assert.Equal(t, 4, l.Len())

	v, ok := l.Find(func(v int) bool { return v > 10 })
	assert.True(t, ok)
	assert.Equal(t, 31, v)
	_, ok = l.Find(func(v int) bool { return v > 100 })
	assert.False(t, ok)
}

func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	assert.Len(t, seed.Documents, 4)
	assert.Len(t, seed.Contracts, 3)
	assert.Len(t, seed.Payments, 3)
	assert.Len(t, seed.Applications, 4)
	assert.Len(t, seed.Businesses, 5)
	assert.Len(t, seed.Activity, 15)
	assert.Equal(t, model.PaymentFailed, seed.Payments[2].Status)
	assert.Equal(t, model.BadgeDraft, seed.Activity[12].Status)
	assert.Equal(t, "2024-01-16", seed.Documents[1].UploadDate)
	assert.False(t, seed.Documents[3].Uploaded())
}

func TestParseSeedRejectsUnknownStatus(t *testing.T) {
	_, err := ParseSeed([]byte("payments:\n  - id: PAY1\n    status: refunded\n"))
	assert.Error(t, err)
}
