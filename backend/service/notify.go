package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

// Notifier delivers transient user-visible messages.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// NotificationQueue is a bounded FIFO of notifications waiting to be shown.
// When full the oldest message is dropped.
type NotificationQueue struct {
	mu    sync.Mutex
	items []model.Notification
	max   int
	now   func() time.Time
}

func NewNotificationQueue(max int) *NotificationQueue {
	if max <= 0 {
		max = 50
	}
	return &NotificationQueue{max: max, now: time.Now}
}

func (q *NotificationQueue) Notify(ctx context.Context, n model.Notification) {
	if n.Severity == "" {
		n.Severity = model.SeverityDefault
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = q.now()
	}

	q.mu.Lock()
	q.items = append(q.items, n)
	if over := len(q.items) - q.max; over > 0 {
		q.items = append([]model.Notification(nil), q.items[over:]...)
	}
	q.mu.Unlock()

	logger.Debug(ctx, "notification queued", "title", n.Title, "severity", n.Severity)
}

// Drain returns and clears every queued notification.
func (q *NotificationQueue) Drain() []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []model.Notification{}
	}
	return out
}

// Pending returns the number of queued notifications.
func (q *NotificationQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func notify(ctx context.Context, n Notifier, title, description string) {
	if n == nil {
		return
	}
	n.Notify(ctx, model.Notification{Title: title, Description: description})
}

// notifyFailure surfaces a validation failure as a destructive notification.
// Other errors are left to the caller.
func notifyFailure(ctx context.Context, n Notifier, err error) {
	var verr *model.ValidationError
	if n == nil || !errors.As(err, &verr) {
		return
	}
	title := verr.Title
	if title == "" {
		title = "Validation Failed"
	}
	n.Notify(ctx, model.Notification{
		Title:       title,
		Description: verr.Error(),
		Severity:    model.SeverityDestructive,
	})
}
