// Package session holds the signed-in user of the terminal client. A Session
// is created once in main, initialised from disk and passed explicitly to
// everything that needs the current user.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type state struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is safe for concurrent use.
type Session struct {
	mu   sync.RWMutex
	path string
	cur  state
}

// New returns an empty session persisted at path. An empty path keeps the
// session in memory only.
func New(path string) *Session {
	return &Session{path: path}
}

// Init restores a previously saved session. A missing file leaves the
// session signed out.
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = state{}
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("parse session: %w", err)
	}
	if st.Token != "" && st.Email != "" {
		s.cur = st
	}
	return nil
}

// Start records a successful login and persists it.
func (s *Session) Start(token, email, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = state{Token: token, Email: email, Name: name}
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(s.cur)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Teardown signs the user out and removes the saved session.
func (s *Session) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = state{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// Email returns the signed-in user's e-mail, or "" when signed out.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Email
}

// Name returns the signed-in user's display name.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Name
}

// LoggedIn reports whether a user is signed in.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}
