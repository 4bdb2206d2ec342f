// Package lock provides per-user locking for concurrent balance operations.
package lock

import (
	"context"
	"sync"
	"time"
)

// userMutex wraps a mutex with reference counting for cleanup.
type userMutex struct {
	mu       sync.Mutex
	refCount int
}

// UserLock provides per-user locking to prevent race conditions
// during balance operations and redemption settlement.
// User IDs are Discord snowflakes, treated as opaque strings.
type UserLock struct {
	locks sync.Map // map[string]*userMutex
	pool  sync.Pool
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{
		pool: sync.Pool{
			New: func() any {
				return &userMutex{}
			},
		},
	}
}

// getLock retrieves or creates a mutex for the given user ID.
func (ul *UserLock) getLock(userID string) *userMutex {
	// Try to load existing lock
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*userMutex)
	}

	// Create new lock from pool
	newLock := ul.pool.Get().(*userMutex)
	newLock.refCount = 0

	// Store or load existing (handles race condition)
	actual, loaded := ul.locks.LoadOrStore(userID, newLock)
	if loaded {
		// Another goroutine created the lock first, return ours to pool
		ul.pool.Put(newLock)
	}
	return actual.(*userMutex)
}

// Lock acquires the lock for a user.
// This should be called before any balance-modifying operation.
func (ul *UserLock) Lock(userID string) {
	lock := ul.getLock(userID)
	lock.mu.Lock()
	lock.refCount++
}

// Unlock releases the lock for a user.
// This should be called after balance-modifying operations complete.
func (ul *UserLock) Unlock(userID string) {
	if v, ok := ul.locks.Load(userID); ok {
		lock := v.(*userMutex)
		lock.refCount--
		lock.mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false otherwise.
func (ul *UserLock) TryLock(userID string) bool {
	lock := ul.getLock(userID)
	if lock.mu.TryLock() {
		lock.refCount++
		return true
	}
	return false
}

// LockWithTimeout attempts to acquire the lock with a timeout.
// Returns true if the lock was acquired, false if timeout occurred.
func (ul *UserLock) LockWithTimeout(ctx context.Context, userID string, timeout time.Duration) bool {
	lock := ul.getLock(userID)

	// Create a channel to signal lock acquisition
	done := make(chan struct{})

	go func() {
		lock.mu.Lock()
		close(done)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-done:
		lock.refCount++
		return true
	case <-timeoutCtx.Done():
		// Timeout occurred - the waiting goroutine will eventually acquire
		// the lock; release it as soon as it does.
		go func() {
			<-done
			lock.mu.Unlock()
		}()
		return false
	}
}

// WithLock executes a function while holding the user's lock.
// This is a convenience method that ensures proper lock/unlock.
func (ul *UserLock) WithLock(userID string, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}

// WithLockContext executes a function while holding the user's lock,
// with context support for cancellation.
func (ul *UserLock) WithLockContext(ctx context.Context, userID string, timeout time.Duration, fn func() error) error {
	if !ul.LockWithTimeout(ctx, userID, timeout) {
		return ErrLockTimeout
	}
	defer ul.Unlock(userID)

	// Check if context was cancelled while waiting for lock
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn()
	}
}

// IsLocked checks if a user currently has an active lock.
// Note: This is a point-in-time check and may change immediately after.
func (ul *UserLock) IsLocked(userID string) bool {
	if v, ok := ul.locks.Load(userID); ok {
		lock := v.(*userMutex)
		if lock.mu.TryLock() {
			lock.mu.Unlock()
			return false
		}
		return true
	}
	return false
}
