// Package lock serializes hold/booking attempts per (tenant, staff).
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
)

// DefaultWait bounds lock acquisition when no wait is configured.
const DefaultWait = 3 * time.Second

// Key is the lock name shared by every locker implementation.
func Key(tenantID, staffID uuid.UUID) string {
	return "booking:lock:" + tenantID.String() + ":" + staffID.String()
}

// LocalLocker is a keyed mutex for a single process.
type LocalLocker struct {
	wait time.Duration

	mu   sync.Mutex
	keys map[string]*localEntry
}

type localEntry struct {
	sem  chan struct{}
	refs int
}

// NewLocalLocker waits at most `wait` for a busy key (0 means only the
// caller's context bounds the wait).
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		wait: wait,
		keys: map[string]*localEntry{},
	}
}

func (l *LocalLocker) Lock(ctx context.Context, tenantID, staffID uuid.UUID) (func(), error) {
	key := Key(tenantID, staffID)
	e := l.acquireEntry(key)

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseEntry(key, e)
		return nil, domain.ErrStaffBusy
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.releaseEntry(key, e)
		})
	}, nil
}

func (l *LocalLocker) acquireEntry(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.keys[key]
	if !ok {
		e = &localEntry{sem: make(chan struct{}, 1)}
		l.keys[key] = e
	}
	e.refs++
	return e
}

// releaseEntry drops the entry once nobody holds or waits on it.
func (l *LocalLocker) releaseEntry(key string, e *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
}

var _ domain.Locker = (*LocalLocker)(nil)
