package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

// Workspace is one user's onboarding state: the wizard, every screen's
// records and the pending notifications. Delayed callbacks are bound to its
// scope and stop when the workspace closes.
type Workspace struct {
	Owner         string
	Notifications *NotificationQueue
	Wizard        *Wizard
	Documents     *DocumentService
	Contracts     *ContractService
	Payments      *PaymentService
	Approvals     *ApprovalService
	AdminPayments *AdminPaymentService

	subscription model.Subscription
	activity     []model.Activity
	scope        *Scope
	registered   atomic.Bool
	createdAt    time.Time
	lastSeen     time.Time
	touched      uint64
}

// SubmitRegistration files the registration and moves the user past step 1.
func (w *Workspace) SubmitRegistration(ctx context.Context, draft model.RegistrationDraft) error {
	if err := w.Approvals.SubmitRegistration(ctx, draft); err != nil {
		return err
	}
	w.registered.Store(true)
	return nil
}

// CurrentStep is the first onboarding step whose gate is still closed.
func (w *Workspace) CurrentStep() int {
	switch {
	case !w.registered.Load():
		return model.StepRegistration
	case !w.Documents.Unlocked():
		return model.StepDocuments
	case !w.Contracts.Unlocked():
		return model.StepContracts
	default:
		return model.StepPayments
	}
}

func (w *Workspace) Subscription() model.Subscription { return w.subscription }

func (w *Workspace) Activity() []model.Activity { return w.activity }

// Close stops pending timers. Safe to call more than once.
func (w *Workspace) Close() {
	w.scope.Close()
}

// DashboardStats are the headline counters on the home screen.
type DashboardStats struct {
	TotalApplications int     `json:"totalApplications"`
	Approved          int     `json:"approved"`
	PendingReview     int     `json:"pendingReview"`
	Revenue           float64 `json:"revenue"`
}

// Dashboard is the home screen.
type Dashboard struct {
	User           string           `json:"user"`
	Progress       Progress         `json:"progress"`
	NextPath       string           `json:"nextPath"`
	Stats          DashboardStats   `json:"stats"`
	RecentActivity []model.Activity `json:"recentActivity"`
}

const recentActivityShown = 3

func (w *Workspace) Dashboard() Dashboard {
	current := w.CurrentStep()
	apps := w.Approvals.List()
	stats := DashboardStats{
		TotalApplications: len(apps),
		PendingReview:     w.Approvals.Pending(),
		Revenue:           w.Payments.Totals().TotalPaid,
	}
	for _, a := range apps {
		if a.Status == model.ApplicationApproved {
			stats.Approved++
		}
	}

	recent := w.activity
	if len(recent) > recentActivityShown {
		recent = recent[:recentActivityShown]
	}
	return Dashboard{
		User:           w.Owner,
		Progress:       NewProgress(model.OnboardingSteps(), current, nil),
		NextPath:       model.OnboardingSteps()[current-1].Path,
		Stats:          stats,
		RecentActivity: recent,
	}
}

// Activation is the account activation screen.
type Activation struct {
	Status    model.ActivationStatus `json:"status"`
	Tone      model.Tone             `json:"tone"`
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
}

func (w *Workspace) Activation() Activation {
	return Activation{
		Status:    w.subscription.Status,
		Tone:      model.BadgeStatus(w.subscription.Status).Tone(),
		StartDate: w.subscription.StartDate,
		EndDate:   w.subscription.EndDate,
	}
}

// DraftStore is owner's slice of the shared draft store.
func DraftStore(store KVStore, owner string) KVStore {
	return Namespace(store, "drafts/"+owner+"/")
}

// RegistryOptions are the shared collaborators of every workspace.
type RegistryOptions struct {
	Config    *config.Config
	Drafts    KVStore
	Documents DocumentStorage
	Seed      *Seed
	Now       func() time.Time
}

// WorkspaceRegistry holds one live workspace per user. When more than the
// configured maximum are open the least recently used ones are closed.
// Drafts live in the shared KV store and survive eviction.
type WorkspaceRegistry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	max        int
	clock      uint64
	opts       RegistryOptions
}

func NewWorkspaceRegistry(opts RegistryOptions) *WorkspaceRegistry {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Drafts == nil {
		opts.Drafts = NewMemoryKVStore()
	}
	if opts.Seed == nil {
		opts.Seed = &Seed{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	limit := opts.Config.Store.MaxWorkspaces
	if limit < 0 {
		limit = 0
	}
	slog.Info("workspace registry initialized", "max_workspaces", limit)
	return &WorkspaceRegistry{
		workspaces: make(map[string]*Workspace),
		max:        limit,
		opts:       opts,
	}
}

// Get returns the workspace for owner, creating it from the seed on first use.
func (r *WorkspaceRegistry) Get(owner string) *Workspace {
	r.mu.Lock()
	now := r.opts.Now()
	r.clock++
	if ws, ok := r.workspaces[owner]; ok {
		ws.lastSeen = now
		ws.touched = r.clock
		r.mu.Unlock()
		return ws
	}

	ws := r.newWorkspace(owner, now)
	ws.touched = r.clock
	r.workspaces[owner] = ws
	evicted := r.evictIfNeeded()
	r.mu.Unlock()

	for _, old := range evicted {
		old.Close()
	}
	return ws
}

// Peek returns the workspace for owner without creating or touching it.
func (r *WorkspaceRegistry) Peek(owner string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[owner]
	return ws, ok
}

func (r *WorkspaceRegistry) newWorkspace(owner string, now time.Time) *Workspace {
	cfg := r.opts.Config
	seed := r.opts.Seed
	clock := r.opts.Now

	ws := &Workspace{
		Owner:         owner,
		Notifications: NewNotificationQueue(cfg.Store.MaxNotifications),
		subscription:  seed.Subscription,
		activity:      seed.Activity,
		scope:         NewScope(context.Background()),
		createdAt:     now,
		lastSeen:      now,
	}
	ws.Documents = NewDocumentService(owner, seed.Documents, r.opts.Documents, ws.Notifications, clock)
	ws.Contracts = NewContractService(seed.Contracts, ws.Notifications, clock)
	ws.Payments = NewPaymentService(seed.Payments, seed.Subscription, ws.scope, cfg.Onboarding.PaymentDelay, ws.Notifications, clock)
	ws.Approvals = NewApprovalService(seed.Applications, func() int { return len(ws.Documents.List()) }, ws.Notifications, clock)
	ws.AdminPayments = NewAdminPaymentService(seed.Businesses, ws.Notifications, clock)
	ws.Wizard = NewWizard(DraftStore(r.opts.Drafts, owner), ws.Notifications, ws, WizardOptions{
		EnforceStepValidation: cfg.Onboarding.EnforceStepValidation,
	})

	slog.Info("workspace created", "owner", owner)
	return ws
}

// evictIfNeeded drops the least recently used workspaces above the cap and
// returns them for closing.
// Must be called with lock held
func (r *WorkspaceRegistry) evictIfNeeded() []*Workspace {
	if r.max <= 0 || len(r.workspaces) <= r.max {
		return nil
	}

	all := make([]*Workspace, 0, len(r.workspaces))
	for _, ws := range r.workspaces {
		all = append(all, ws)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].touched < all[j].touched
	})

	evicted := all[:len(all)-r.max]
	for _, ws := range evicted {
		slog.Info("evicting idle workspace", "owner", ws.Owner, "created_at", ws.createdAt, "last_seen", ws.lastSeen)
		delete(r.workspaces, ws.Owner)
	}
	return evicted
}

// Close tears down owner's workspace. Unknown owners are ignored.
func (r *WorkspaceRegistry) Close(owner string) {
	r.mu.Lock()
	ws, ok := r.workspaces[owner]
	delete(r.workspaces, owner)
	r.mu.Unlock()

	if ok {
		ws.Close()
	}
}

// CloseAll tears down every workspace.
func (r *WorkspaceRegistry) CloseAll() {
	r.mu.Lock()
	all := r.workspaces
	r.workspaces = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, ws := range all {
		ws.Close()
	}
}

// Notify delivers n to the workspace of the user carried by ctx. Messages
// for users without a live workspace are dropped.
func (r *WorkspaceRegistry) Notify(ctx context.Context, n model.Notification) {
	owner := logger.UserFrom(ctx)
	ws, ok := r.Peek(owner)
	if !ok {
		logger.Debug(ctx, "notification dropped, no live workspace", "title", n.Title)
		return
	}
	ws.Notifications.Notify(ctx, n)
}

// Count returns the number of live workspaces
func (r *WorkspaceRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
