// Package session owns the authenticated-identity context of the client:
// a single opaque bearer token, kept in memory and mirrored to a file so the
// session survives restarts. The store is the only writer of the token;
// every outgoing request reads it through Token().
package session

import (
	"errors"
	"os"
	"sync"
)

// Store holds the current session token. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu        sync.RWMutex
	path      string
	token     string
	onExpired func()
}

// NewStore creates a token store backed by the file at path. If the file
// exists, the persisted token is loaded so a previous session is resumed.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	s.token = string(data)
	return s, nil
}

// Token returns the current bearer token, or "" when not authenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a session token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores the token in memory and persists it to the token file
// with owner-only permissions.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Clear removes the token from memory and from durable storage. It is
// idempotent: clearing an already-empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *Store) clearLocked() error {
	if s.token == "" {
		return nil
	}
	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SetExpiryHandler installs the callback invoked when the server rejects the
// session (Expire). The presentation layer uses it to fall back to the login
// view.
func (s *Store) SetExpiryHandler(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = f
}

// Expire clears the session in response to an authentication failure on a
// token-bearing request and fires the expiry handler. If no token was
// present the call is a no-op and the handler is not fired, which prevents
// redirect loops when the user is already at the login view.
func (s *Store) Expire() {
	s.mu.Lock()
	hadToken := s.token != ""
	_ = s.clearLocked()
	handler := s.onExpired
	s.mu.Unlock()

	if hadToken && handler != nil {
		handler()
	}
}
