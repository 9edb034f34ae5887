package service

import "sync"

// RecordList holds one screen's records. The backing slice is never written
// in place: every mutation builds a new slice, so a Snapshot taken earlier
// stays valid.
type RecordList[T any] struct {
	mu    sync.RWMutex
	items []T
}

func NewRecordList[T any](items []T) *RecordList[T] {
	return &RecordList[T]{items: append([]T(nil), items...)}
}

// Snapshot returns the current list. Callers must not modify it.
func (l *RecordList[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items
}

func (l *RecordList[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Replace swaps in the list returned by fn. fn must not modify cur.
func (l *RecordList[T]) Replace(fn func(cur []T) []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = fn(l.items)
}

// Map replaces the list with fn applied to every record.
func (l *RecordList[T]) Map(fn func(T) T) {
	l.Replace(func(cur []T) []T {
		next := make([]T, len(cur))
		for i, item := range cur {
			next[i] = fn(item)
		}
		return next
	})
}

// Filter keeps the records for which keep returns true and reports how many
// were removed.
func (l *RecordList[T]) Filter(keep func(T) bool) int {
	removed := 0
	l.Replace(func(cur []T) []T {
		next := make([]T, 0, len(cur))
		for _, item := range cur {
			if keep(item) {
				next = append(next, item)
			} else {
				removed++
			}
		}
		return next
	})
	return removed
}

// Prepend puts item at the head of the list.
func (l *RecordList[T]) Prepend(item T) {
	l.Replace(func(cur []T) []T {
		next := make([]T, 0, len(cur)+1)
		next = append(next, item)
		return append(next, cur...)
	})
}

// Upsert replaces the first record matching match, or appends item. It
// returns the replaced record, if any.
func (l *RecordList[T]) Upsert(match func(T) bool, item T) (old T, replaced bool) {
	l.Replace(func(cur []T) []T {
		next := make([]T, len(cur), len(cur)+1)
		copy(next, cur)
		for i := range next {
			if match(next[i]) {
				old, replaced = next[i], true
				next[i] = item
				return next
			}
		}
		return append(next, item)
	})
	return old, replaced
}

// Find returns the first record matching match.
func (l *RecordList[T]) Find(match func(T) bool) (T, bool) {
	for _, item := range l.Snapshot() {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
