// Package tokens supplies bearer tokens for authenticated API calls. The
// token itself is opaque to this module; providers only decide whether one
// is currently available.
package tokens

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNoToken indicates that no auth token is currently available. Callers
// that require authentication fail fast on it, before any network I/O.
var ErrNoToken = errors.New("no auth token available")

// Provider yields the current bearer token, or ErrNoToken when absent.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static returns a Provider that always yields the given token.
// An empty token yields ErrNoToken.
func Static(token string) Provider {
	return ProviderFunc(func(context.Context) (string, error) {
		if strings.TrimSpace(token) == "" {
			return "", ErrNoToken
		}
		return token, nil
	})
}

// Store is a mutable in-memory token holder, safe for concurrent use.
// It models the session-storage collaborator that owns the token outside
// this module.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the stored token.
func (s *Store) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear removes the stored token.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// Token implements Provider.
func (s *Store) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}
