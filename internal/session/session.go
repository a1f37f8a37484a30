// Package session holds the access and refresh tokens shared by the API
// client and the auth service.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/store"
)

// Store reads and writes session tokens. Implementations must be safe for
// concurrent use; the API client reads on every request.
type Store interface {
	Tokens(ctx context.Context) (model.Session, error)
	SetTokens(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
}

// Memory is an in-process Store.
type Memory struct {
	mu sync.RWMutex
	s  model.Session
}

// NewMemory returns a Memory store seeded with s.
func NewMemory(s model.Session) *Memory {
	return &Memory{s: s}
}

// Tokens implements Store.
func (m *Memory) Tokens(context.Context) (model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s, nil
}

// SetTokens implements Store.
func (m *Memory) SetTokens(_ context.Context, s model.Session) error {
	m.mu.Lock()
	m.s = s
	m.mu.Unlock()
	return nil
}

// Clear implements Store.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	m.s = model.Session{}
	m.mu.Unlock()
	return nil
}

// Persistent keeps tokens in the local SQLite store.
type Persistent struct {
	db *store.DB
}

// NewPersistent wraps db as a Store.
func NewPersistent(db *store.DB) *Persistent {
	return &Persistent{db: db}
}

// Tokens implements Store.
func (p *Persistent) Tokens(ctx context.Context) (model.Session, error) {
	vals, err := p.db.GetMany(ctx, store.KeyAccessToken, store.KeyRefreshToken)
	if err != nil {
		return model.Session{}, fmt.Errorf("loading session: %w", err)
	}
	return model.Session{
		AccessToken:  vals[store.KeyAccessToken],
		RefreshToken: vals[store.KeyRefreshToken],
	}, nil
}

// SetTokens implements Store. Empty fields are removed.
func (p *Persistent) SetTokens(ctx context.Context, s model.Session) error {
	err := p.db.SetMany(ctx, map[string]string{
		store.KeyAccessToken:  s.AccessToken,
		store.KeyRefreshToken: s.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear implements Store.
func (p *Persistent) Clear(ctx context.Context) error {
	if err := p.db.Delete(ctx, store.KeyAccessToken, store.KeyRefreshToken); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
