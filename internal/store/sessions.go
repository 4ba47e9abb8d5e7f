// Package store holds the mock API's session state: which refresh tokens have been revoked.
package store

import (
	"context"
	"sync"
	"time"
)

// Sessions records revoked refresh-token ids until the tokens would have expired anyway.
type Sessions interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	Revoked(ctx context.Context, id string) (bool, error)
	Healthy(ctx context.Context) bool
	Close() error
}

// Memory is a process-local Sessions.
type Memory struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *Memory) Revoke(_ context.Context, id string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, k)
		}
	}
	if until.After(now) {
		m.revoked[id] = until
	}
	return nil
}

func (m *Memory) Revoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[id]
	return ok && exp.After(m.now()), nil
}

func (m *Memory) Healthy(context.Context) bool { return true }

func (m *Memory) Close() error { return nil }

// Open returns the backend named by kind ("memory" or "redis").
func Open(kind, redisAddr string) Sessions {
	if kind == "redis" {
		return NewRedis(redisAddr)
	}
	return NewMemory()
}
