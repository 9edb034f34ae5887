package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

// ErrInvalidCredentials is returned when demo accounts are configured and
// the email or password does not match one.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Session flag keys, stored per user.
const (
	flagAuthenticated = "isAuthenticated"
	flagEmail         = "userEmail"
	flagFirstName     = "firstName"
	flagLastName      = "lastName"
)

// DefaultResetDelay is how long the simulated reset mail takes to go out.
const DefaultResetDelay = 2 * time.Second

// SignupRequest is the new-account form.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SessionService signs users in and out. Only the signed-in flags are
// persisted; passwords and tokens never are.
type SessionService struct {
	flags KVStore
	users []config.User

	scope      *Scope
	resetDelay time.Duration
	notifier   Notifier

	mu     sync.Mutex
	resets map[string]model.ResetStatus
}

// NewSessionService creates the service. Reset timers run in scope;
// notifier receives the reset confirmation.
func NewSessionService(flags KVStore, users []config.User, scope *Scope, resetDelay time.Duration, notifier Notifier) *SessionService {
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}
	return &SessionService{
		flags:      Namespace(flags, "session/"),
		users:      users,
		scope:      scope,
		resetDelay: resetDelay,
		notifier:   notifier,
		resets:     make(map[string]model.ResetStatus),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func flagKey(email, flag string) string {
	return email + "/" + flag
}

// canonicalEmail validates raw and returns the bare lower-case address, so
// "Bob <bob@x.com>" and "bob@x.com" name the same user.
func canonicalEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", model.NewValidationError("Missing Information", "email is required", "email")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", model.NewValidationError("Invalid Email", "email address is not valid", "email")
	}
	return normalizeEmail(addr.Address), nil
}

// Init restores the session for email from the persisted flags.
func (s *SessionService) Init(ctx context.Context, email string) (model.User, bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return model.User{}, false, nil
	}
	auth, found, err := s.flags.Get(ctx, flagKey(email, flagAuthenticated))
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to read session: %w", err)
	}
	if !found || string(auth) != "true" {
		return model.User{}, false, nil
	}
	stored, found, err := s.flags.Get(ctx, flagKey(email, flagEmail))
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to read session: %w", err)
	}
	if !found || string(stored) != email {
		return model.User{}, false, nil
	}

	u := model.User{Email: email}
	if v, ok, _ := s.flags.Get(ctx, flagKey(email, flagFirstName)); ok {
		u.FirstName = string(v)
	}
	if v, ok, _ := s.flags.Get(ctx, flagKey(email, flagLastName)); ok {
		u.LastName = string(v)
	}
	return u, true, nil
}

// Authenticated reports whether email holds a live session.
func (s *SessionService) Authenticated(ctx context.Context, email string) bool {
	_, ok, err := s.Init(ctx, email)
	if err != nil {
		logger.Warn(ctx, "session lookup failed", "error", err)
		return false
	}
	return ok
}

// Login signs a user in. With no demo accounts configured any non-empty
// email and password is accepted.
func (s *SessionService) Login(ctx context.Context, email, password string) (model.User, error) {
	email, err := canonicalEmail(email)
	if err != nil {
		return model.User{}, err
	}
	if password == "" {
		return model.User{}, model.NewValidationError("Missing Information", "password is required", "password")
	}
	if len(s.users) > 0 && !s.matches(email, password) {
		return model.User{}, ErrInvalidCredentials
	}

	u := model.User{Email: email, FirstName: "Demo", LastName: "User"}
	if err := s.store(ctx, u); err != nil {
		return model.User{}, err
	}
	logger.Info(logger.WithUser(ctx, email), "user signed in")
	return u, nil
}

// Signup creates the account and signs it in.
func (s *SessionService) Signup(ctx context.Context, req SignupRequest) (model.User, error) {
	email, err := canonicalEmail(req.Email)
	if err != nil {
		return model.User{}, err
	}
	if req.Password == "" {
		return model.User{}, model.NewValidationError("Missing Information", "password is required", "password")
	}
	// Configured accounts already exist; signing up as one needs its password.
	if s.configured(email) && !s.matches(email, req.Password) {
		return model.User{}, ErrInvalidCredentials
	}

	u := model.User{
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := s.store(ctx, u); err != nil {
		return model.User{}, err
	}
	logger.Info(logger.WithUser(ctx, email), "user signed up")
	return u, nil
}

func (s *SessionService) configured(email string) bool {
	for _, u := range s.users {
		if normalizeEmail(u.Email) == email {
			return true
		}
	}
	return false
}

func (s *SessionService) matches(email, password string) bool {
	for _, u := range s.users {
		if normalizeEmail(u.Email) == email && u.Password == password {
			return true
		}
	}
	return false
}

func (s *SessionService) store(ctx context.Context, u model.User) error {
	flags := [][2]string{
		{flagEmail, u.Email},
		{flagFirstName, u.FirstName},
		{flagLastName, u.LastName},
		{flagAuthenticated, "true"},
	}
	for _, f := range flags {
		if err := s.flags.Set(ctx, flagKey(u.Email, f[0]), []byte(f[1])); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
	}
	return nil
}

// Logout clears the session flags. Logging out twice is harmless.
func (s *SessionService) Logout(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	for _, f := range []string{flagAuthenticated, flagEmail, flagFirstName, flagLastName} {
		if err := s.flags.Delete(ctx, flagKey(email, f)); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
	}
	logger.Info(logger.WithUser(ctx, email), "user signed out")
	return nil
}

// RequestPasswordReset queues a reset mail for email. The request is pending
// until the delay elapses, then marked sent.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := canonicalEmail(email)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.resets[email] = model.ResetPending
	s.mu.Unlock()

	scheduled := s.scope.After(s.resetDelay, func(sctx context.Context) {
		s.mu.Lock()
		s.resets[email] = model.ResetSent
		s.mu.Unlock()

		uctx := logger.WithUser(sctx, email)
		logger.Info(uctx, "password reset link sent")
		notify(uctx, s.notifier, "Reset Link Sent", "Check your email for password reset instructions.")
	})
	if !scheduled {
		logger.Warn(ctx, "password reset not scheduled, service stopped")
	}
	return nil
}

// ResetStatus reports the state of the last reset request for email.
func (s *SessionService) ResetStatus(email string) model.ResetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if canonical, err := canonicalEmail(email); err == nil {
		email = canonical
	}
	return s.resets[normalizeEmail(email)]
}
