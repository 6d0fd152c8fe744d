package sessions

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// entry is the per-token ledger state. Folding active and revoked into one
// value keeps the activate/revoke transitions tear-free under a single lock.
type entry struct {
	username  string
	active    bool
	revoked   bool
	expiresAt time.Time
}

type currentEntry struct {
	token     string
	expiresAt time.Time
}

// InMemoryLedger is a process-local Ledger backed by expiring maps. Expired
// entries read as absent immediately; their memory is reclaimed by Cleanup,
// which an optional background sweeper runs periodically.
type InMemoryLedger struct {
	mu      sync.RWMutex
	tokens  map[string]entry
	current map[string]currentEntry

	nowFunc       func() time.Time
	sweepInterval time.Duration
	done          chan struct{}
	closeOnce     sync.Once
}

var _ Ledger = (*InMemoryLedger)(nil)

type LedgerOption func(*InMemoryLedger)

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) LedgerOption {
	return func(l *InMemoryLedger) {
		l.nowFunc = now
	}
}

// WithSweepInterval starts a background goroutine that evicts expired
// entries every interval. Callers must Close the ledger to stop it.
func WithSweepInterval(interval time.Duration) LedgerOption {
	return func(l *InMemoryLedger) {
		l.sweepInterval = interval
	}
}

func NewInMemoryLedger(options ...LedgerOption) *InMemoryLedger {
	l := &InMemoryLedger{
		tokens:  make(map[string]entry),
		current: make(map[string]currentEntry),
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(l)
	}

	if l.sweepInterval > 0 {
		l.done = make(chan struct{})
		go l.sweep()
	}

	return l
}

// Activate marks the token active and points current(username) at it, both
// under one critical section so no reader sees a half-written pair.
func (l *InMemoryLedger) Activate(token, username string, ttl time.Duration) error {
	if token == "" {
		return errors.New("token is required")
	}
	if username == "" {
		return errors.New("username is required")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	expiresAt := l.nowFunc().Add(ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens[token] = entry{
		username:  username,
		active:    true,
		expiresAt: expiresAt,
	}
	l.current[username] = currentEntry{
		token:     token,
		expiresAt: expiresAt,
	}
	return nil
}

// Revoke is idempotent and terminal: once set, the token stays revoked until
// the entry expires, and its active flag is cleared immediately.
func (l *InMemoryLedger) Revoke(token string, ttl time.Duration) error {
	if token == "" {
		return errors.New("token is required")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	expiresAt := l.nowFunc().Add(ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.tokens[token]
	e.active = false
	e.revoked = true
	e.expiresAt = expiresAt
	l.tokens[token] = e
	return nil
}

func (l *InMemoryLedger) IsRevoked(token string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.tokens[token]
	if !ok || l.expired(e.expiresAt) {
		return false, nil
	}
	return e.revoked, nil
}

func (l *InMemoryLedger) IsActive(token string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.tokens[token]
	if !ok || l.expired(e.expiresAt) {
		return false, nil
	}
	return e.active, nil
}

func (l *InMemoryLedger) CurrentTokenFor(username string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, ok := l.current[username]
	if !ok || l.expired(c.expiresAt) {
		return "", nil
	}
	return c.token, nil
}

// Cleanup removes expired entries. Reads already treat expired entries as
// absent; this reclaims their memory.
func (l *InMemoryLedger) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for token, e := range l.tokens {
		if l.expired(e.expiresAt) {
			delete(l.tokens, token)
		}
	}
	for username, c := range l.current {
		if l.expired(c.expiresAt) {
			delete(l.current, username)
		}
	}
}

// Close stops the background sweeper, if one was started.
func (l *InMemoryLedger) Close() {
	if l.done == nil {
		return
	}
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

func (l *InMemoryLedger) expired(expiresAt time.Time) bool {
	return !l.nowFunc().Before(expiresAt)
}

func (l *InMemoryLedger) sweep() {
	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}
