// Package lock serializes detection work per user.
package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/google/uuid"
)

// Locker grants exclusive per-user access. Acquire blocks until the lock is
// held or ctx is done; the returned release func must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, userID uuid.UUID) (release func(), err error)
}

// LocalLocker is an in-process Locker backed by one-slot channels.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[uuid.UUID]*slot)}
}

func (l *LocalLocker) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	s := l.ref(userID)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(userID)
		return nil, busy(userID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(userID)
		})
	}, nil
}

func (l *LocalLocker) ref(userID uuid.UUID) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[userID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[userID] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) unref(userID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[userID]
	s.refs--
	if s.refs == 0 {
		delete(l.slots, userID)
	}
}

func busy(userID uuid.UUID, cause error) error {
	return fmt.Errorf("%w: user %s: %w", domain.ErrPassInProgress, userID, cause)
}
