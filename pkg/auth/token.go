// Package auth supplies bearer tokens for outbound API calls. Absence of a
// token is not an error at this layer; unauthenticated requests simply fail
// with whatever status the server reports.
package auth

import "sync"

// TokenSource yields the current bearer token, or "" when unauthenticated.
type TokenSource interface {
	Token() string
}

// Static is a fixed token.
type Static string

// Token implements TokenSource.
func (s Static) Token() string {
	return string(s)
}

// SessionStore is a process-wide mutable token holder. The zero value is
// usable and empty.
type SessionStore struct {
	mu    sync.RWMutex
	token string
}

// Token implements TokenSource.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set installs a new token.
func (s *SessionStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear removes the token.
func (s *SessionStore) Clear() {
	s.Set("")
}
