// Package lock provides in-process mutual exclusion scoped to a key, so that
// work on one key never waits behind work on another.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// KeyedLocker hands out one binary semaphore per key. Entries are reference
// counted and dropped once no goroutine holds or waits on them.
type KeyedLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
}

func NewKeyedLocker(timeout time.Duration) *KeyedLocker {
	return &KeyedLocker{
		entries: make(map[string]*entry),
		timeout: timeout,
	}
}

// Acquire blocks until the lock for key is held, the locker timeout elapses
// or ctx is done. The returned release func must be called exactly once.
func (l *KeyedLocker) Acquire(ctx context.Context, key string) (func(), error) {
	e := l.ref(key)

	waitCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	if err := e.sem.Acquire(waitCtx, 1); err != nil {
		l.unref(key)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrLockTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			l.unref(key)
		})
	}, nil
}

// Len returns the number of keys currently tracked.
func (l *KeyedLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *KeyedLocker) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *KeyedLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
