package service

import (
	"context"
	"sync"
	"time"
)

// Scope bounds the lifetime of delayed callbacks. Closing the scope cancels
// every pending timer; a callback whose timer already fired sees a cancelled
// context and is expected to do nothing.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// After runs fn once d has elapsed unless the scope closes first. It reports
// false when the scope is already closed.
func (s *Scope) After(d time.Duration, fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
		}
		if s.ctx.Err() != nil {
			return
		}
		fn(s.ctx)
	}()
	return true
}

// Done is closed when the scope is closed.
func (s *Scope) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Close cancels pending callbacks and waits for running ones. It is safe to
// call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
