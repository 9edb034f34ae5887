package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/model"
)

func newTestSessions(t *testing.T, users []config.User, n Notifier) (*SessionService, *MemoryKVStore) {
	t.Helper()
	scope := NewScope(context.Background())
	t.Cleanup(scope.Close)
	store := NewMemoryKVStore()
	return NewSessionService(store, users, scope, 20*time.Millisecond, n), store
}

func TestSessionLoginAnyCredentials(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestSessions(t, nil, nil)

	_, ok, err := svc.Init(ctx, "demo@acme.test")
	require.NoError(t, err)
	assert.False(t, ok)

	u, err := svc.Login(ctx, " Demo@Acme.test ", "anything")
	require.NoError(t, err)
	assert.Equal(t, "demo@acme.test", u.Email)
	assert.True(t, svc.Authenticated(ctx, "demo@acme.test"))

	v, found, err := store.Get(ctx, "session/demo@acme.test/isAuthenticated")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "true", string(v))

	restored, ok, err := svc.Init(ctx, "demo@acme.test")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Demo", restored.FirstName)
}

func TestSessionLoginValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessions(t, nil, nil)

	var verr *model.ValidationError
	_, err := svc.Login(ctx, "", "pw")
	require.ErrorAs(t, err, &verr)
	_, err = svc.Login(ctx, "not-an-email", "pw")
	require.ErrorAs(t, err, &verr)
	_, err = svc.Login(ctx, "a@b.test", "")
	require.ErrorAs(t, err, &verr)
}

func TestSessionLoginConfiguredUsers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessions(t, []config.User{{Email: "admin@acme.test", Password: "secret"}}, nil)

	_, err := svc.Login(ctx, "admin@acme.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "other@acme.test", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "admin@acme.test", "secret")
	assert.NoError(t, err)
}

func TestSessionSignupConfiguredUsers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessions(t, []config.User{{Email: "admin@acme.test", Password: "secret"}}, nil)

	_, err := svc.Signup(ctx, SignupRequest{Email: "Admin@Acme.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, svc.Authenticated(ctx, "admin@acme.test"))

	_, err = svc.Signup(ctx, SignupRequest{Email: "admin@acme.test", Password: "secret"})
	assert.NoError(t, err)
	assert.True(t, svc.Authenticated(ctx, "admin@acme.test"))

	_, err = svc.Signup(ctx, SignupRequest{Email: "new@acme.test", Password: "pw"})
	assert.NoError(t, err, "unconfigured emails may sign up")
}

func TestSessionUsesBareAddress(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessions(t, nil, nil)

	u, err := svc.Login(ctx, "Bob <Bob@X.com>", "pw")
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", u.Email)
	assert.True(t, svc.Authenticated(ctx, "bob@x.com"))

	u, err = svc.Signup(ctx, SignupRequest{Email: " Ana Cruz <ana@acme.test> ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.test", u.Email)

	require.NoError(t, svc.RequestPasswordReset(ctx, "Bob <bob@x.com>"))
	assert.NotEqual(t, model.ResetNone, svc.ResetStatus("bob@x.com"))
	assert.NotEqual(t, model.ResetNone, svc.ResetStatus("Bob <bob@x.com>"))
}

func TestSessionSignupAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestSessions(t, nil, nil)

	u, err := svc.Signup(ctx, SignupRequest{Email: "new@acme.test", Password: "pw", FirstName: "Ana", LastName: "Cruz"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.FirstName)

	restored, ok, err := svc.Init(ctx, "new@acme.test")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Cruz", restored.LastName)

	require.NoError(t, svc.Logout(ctx, "new@acme.test"))
	assert.False(t, svc.Authenticated(ctx, "new@acme.test"))
	assert.Zero(t, store.Len(), "logout clears every flag")

	require.NoError(t, svc.Logout(ctx, "new@acme.test"), "logging out twice is harmless")
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	q := NewNotificationQueue(10)
	svc, _ := newTestSessions(t, nil, q)

	var verr *model.ValidationError
	require.ErrorAs(t, svc.RequestPasswordReset(ctx, ""), &verr)

	require.NoError(t, svc.RequestPasswordReset(ctx, "user@acme.test"))
	assert.Equal(t, model.ResetPending, svc.ResetStatus("user@acme.test"))
	assert.Equal(t, model.ResetNone, svc.ResetStatus("other@acme.test"))

	require.Eventually(t, func() bool {
		return svc.ResetStatus("user@acme.test") == model.ResetSent
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool { return q.Pending() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Reset Link Sent", q.Drain()[0].Title)
}

func TestPasswordResetCancelledOnShutdown(t *testing.T) {
	scope := NewScope(context.Background())
	q := NewNotificationQueue(10)
	svc := NewSessionService(NewMemoryKVStore(), nil, scope, 20*time.Millisecond, q)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "user@acme.test"))
	scope.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, model.ResetPending, svc.ResetStatus("user@acme.test"))
	assert.Zero(t, q.Pending())
}
