package memory

import (
	"context"
	"sync"
	"time"
)

// lockEntry is a single held lock with an expiration time. The TTL bounds how
// long a stalled operation can keep a ride locked.
type lockEntry struct {
	expiresAt time.Time
}

// LockManager provides named in-process locks with TTL-based expiration. The
// inventory uses one lock per ride so concurrent book/cancel calls cannot
// interleave their read-modify-write cycles. A multi-instance deployment
// would swap this for Redis SETNX with TTL; the interface stays the same.
type LockManager struct {
	mu    sync.RWMutex
	locks map[string]*lockEntry
	stop  chan struct{}
}

// NewLockManager creates a LockManager and starts the background sweep of
// expired locks. Call Stop during shutdown to end the sweep goroutine.
func NewLockManager() *LockManager {
	lm := &LockManager{
		locks: make(map[string]*lockEntry),
		stop:  make(chan struct{}),
	}
	go lm.cleanupExpiredLocks()
	return lm
}

// AcquireLock attempts to take a named lock for the given TTL. Returns
// (true, nil) on success, (false, nil) when the lock is already held.
// An expired lock counts as free.
func (lm *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if entry, exists := lm.locks[key]; exists {
		if time.Now().Before(entry.expiresAt) {
			return false, nil
		}
	}

	lm.locks[key] = &lockEntry{
		expiresAt: time.Now().Add(ttl),
	}
	return true, nil
}

// ReleaseLock releases a lock before its TTL expires.
func (lm *LockManager) ReleaseLock(ctx context.Context, key string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	delete(lm.locks, key)
	return nil
}

// IsLocked reports whether a lock is currently held and unexpired.
func (lm *LockManager) IsLocked(ctx context.Context, key string) (bool, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	if entry, exists := lm.locks[key]; exists {
		if time.Now().Before(entry.expiresAt) {
			return true, nil
		}
	}
	return false, nil
}

func (lm *LockManager) cleanupExpiredLocks() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lm.mu.Lock()
			now := time.Now()
			for key, entry := range lm.locks {
				if now.After(entry.expiresAt) {
					delete(lm.locks, key)
				}
			}
			lm.mu.Unlock()
		case <-lm.stop:
			return
		}
	}
}

// Stop signals the background cleanup goroutine to exit.
func (lm *LockManager) Stop() {
	close(lm.stop)
}
