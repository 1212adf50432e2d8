package session

import (
	"context"
	"fmt"
	"sync"
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Session is the admin login state: a token is present exactly when the
// admin panel is unlocked. The token is opaque and never validated locally.
type Session struct {
	mu    sync.RWMutex
	store TokenStore
	token string
}

// Open restores the session persisted in store.
func Open(store TokenStore) (*Session, error) {
	tok, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{store: store, token: tok}, nil
}

// Token returns the current token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// Login authenticates and persists the returned token. On failure nothing
// is stored and the previous state is kept.
func (s *Session) Login(ctx context.Context, auth Authenticator, username, password string) error {
	tok, err := auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.store.Save(tok); err != nil {
		return fmt.Errorf("session: saving token: %w", err)
	}
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	return nil
}

// Logout forgets the token and removes it from the store.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("session: clearing token: %w", err)
	}
	return nil
}

// Expire drops a token the backend rejected. It is Logout under another
// name so call sites say why the token went away.
func (s *Session) Expire() error {
	return s.Logout()
}
