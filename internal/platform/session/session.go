// Package session holds the client's authentication marker. The backend
// issues a session payload on login; its mere presence in the store grants
// access — there is no expiry and no server-side freshness check. The
// Context interface keeps the backing store swappable instead of scattering
// raw storage reads across screens.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotLoggedIn is returned when no session marker is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the payload the backend returns on a successful login. The
// raw body is kept verbatim so unknown server fields survive a round trip.
type Session struct {
	Username string          `json:"username"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// Context is the session guard seen by every screen.
type Context interface {
	// IsValid reports whether a session marker is present. Any stored
	// payload is considered valid indefinitely.
	IsValid() bool
	Get() (*Session, error)
	Set(payload []byte) error
	Clear() error
}

// FileStore persists the session as a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) IsValid() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Size() > 0
}

func (s *FileStore) Get() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotLoggedIn
	}
	sess := &Session{Raw: json.RawMessage(data)}
	// Best effort: the payload may be any JSON document.
	_ = json.Unmarshal(data, sess)
	sess.Raw = json.RawMessage(data)
	return sess, nil
}

func (s *FileStore) Set(payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// RequireAuth gates an operation on a stored session marker.
func RequireAuth(ctx Context) error {
	if !ctx.IsValid() {
		return ErrNotLoggedIn
	}
	return nil
}
