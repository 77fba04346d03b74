package session

import (
	"sync"
	"time"
)

// Locker serializes event processing per user so a session is never routed
// by two goroutines at once. Different users run in parallel.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu       sync.Mutex
	holders  int
	lastUsed time.Time
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*userLock)}
}

// WithLock runs fn while holding the lock for userID.
func (l *Locker) WithLock(userID string, fn func() error) error {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.holders++
	l.mu.Unlock()

	ul.mu.Lock()
	defer func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.holders--
		ul.lastUsed = time.Now()
		l.mu.Unlock()
	}()

	return fn()
}

// Cleanup drops idle locks not used within maxAge.
func (l *Locker) Cleanup(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for id, ul := range l.locks {
		if ul.holders == 0 && now.Sub(ul.lastUsed) > maxAge {
			delete(l.locks, id)
		}
	}
}

// Len reports how many users currently have a lock entry.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
