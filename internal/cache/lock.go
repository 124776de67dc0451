package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLockTimeout is returned when a lock could not be obtained before the context ended.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// Release frees a lock obtained with Obtain.
type Release func(ctx context.Context) error

// Locker serializes work on a key, such as booking a property.
// A lock expires after ttl even if it is never released.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// LocalLocker is an in-process Locker for single-instance deployments and tests.
type LocalLocker struct {
	mu    sync.Mutex
	seq   uint64
	held  map[string]localLock
	now   func() time.Time
	retry time.Duration
}

type localLock struct {
	id      uint64
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]localLock), now: time.Now, retry: 5 * time.Millisecond}
}

func (l *LocalLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	for {
		l.mu.Lock()
		current, busy := l.held[key]
		if !busy || !l.now().Before(current.expires) {
			l.seq++
			mine := localLock{id: l.seq, expires: l.now().Add(ttl)}
			l.held[key] = mine
			l.mu.Unlock()
			return func(context.Context) error {
				l.mu.Lock()
				defer l.mu.Unlock()
				if l.held[key].id == mine.id {
					delete(l.held, key)
				}
				return nil
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-time.After(l.retry):
		}
	}
}
