// Package revocation tracks logged-out admin tokens by JTI until they would
// have expired anyway, so a revoked bearer token stops working immediately.
package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryList is the single-process revocation list. Entries expire lazily
// on read.
type InMemoryList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewInMemoryList() *InMemoryList {
	return &InMemoryList{revoked: make(map[string]time.Time)}
}

// Revoke marks a JTI revoked for ttl. Zero or negative ttl means the token
// is already expired and needs no entry.
func (l *InMemoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether the JTI is on the list and still within its TTL.
func (l *InMemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	l.mu.RLock()
	expiry, ok := l.revoked[jti]
	l.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		l.mu.Lock()
		delete(l.revoked, jti)
		l.mu.Unlock()
		return false, nil
	}
	return true, nil
}
