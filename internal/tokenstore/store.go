// Package tokenstore holds the bearer credential of the current CLI context.
// No other package persists the token.
package tokenstore

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gatehouse/gatectl/internal/config"
)

// Store keeps at most one bearer token. Set supersedes any previous token.
type Store interface {
	Set(token string) error
	Get() string
	Clear() error
}

// MemoryStore keeps the token for the lifetime of the process
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Set stores token, replacing the previous one
func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Get returns the stored token or ""
func (s *MemoryStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear removes the stored token
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// FileStore persists the token in the gatectl config file
type FileStore struct {
	mu    sync.Mutex
	email string
}

// NewFileStore creates a store backed by the initialized config file
func NewFileStore() *FileStore {
	return &FileStore{}
}

// SetEmail records the account the next token belongs to
func (s *FileStore) SetEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
}

// Set persists token
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return config.UpdateToken(s.email, token)
}

// Get returns the persisted token or ""
func (s *FileStore) Get() string {
	return config.Token()
}

// Clear removes the persisted token
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = ""
	return config.ClearAuth()
}

// Expiry reads the exp claim of a JWT bearer token without verifying its
// signature. ok is false for opaque tokens and tokens without exp.
func Expiry(token string) (exp time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether token carries an exp claim that is before now
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && !now.Before(exp)
}
