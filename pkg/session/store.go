// Package session persists the client-held proof of identity: the bearer
// token plus the cached user profile. The store is the only place session
// state lives; it is written by the auth service and the API client's 401
// handler, and read everywhere else.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/passage-hq/passage/pkg/domain"
)

// Session is the durable client session. A session is valid only when both
// the token and the user are present; anything less is treated as logged out.
type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

// Valid reports whether the session can authenticate requests.
func (s Session) Valid() bool {
	return s.Token != "" && s.User != nil
}

// Store reads and writes the session file at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.passage/session.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".passage", "session.json"), nil
}

// Save writes the token and user as a single document. The write goes through
// a temp file and rename so a reader never observes a token without a user or
// vice versa.
func (s *Store) Save(token string, user *domain.User) error {
	data, err := json.Marshal(Session{Token: token, User: user})
	if err != nil {
		return fmt.Errorf("session.Save: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("session.Save: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.json")
	if err != nil {
		return fmt.Errorf("session.Save: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("session.Save: chmod: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("session.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session.Save: close: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("session.Save: rename: %w", err)
	}
	return nil
}

// Load returns the stored session. A missing or malformed file yields the
// zero session rather than an error: corruption self-heals as logged-out.
func (s *Store) Load() Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}
	}
	return sess
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// IsValid reports whether the stored session is valid.
func (s *Store) IsValid() bool {
	return s.Load().Valid()
}
