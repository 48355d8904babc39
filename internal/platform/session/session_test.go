package session

import (
	"errors"
	"path/filepath"
	"testing"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestFileStore_EmptyIsNotValid(t *testing.T) {
	s := newStore(t)
	if s.IsValid() {
		t.Error("fresh store should not be valid")
	}
	if _, err := s.Get(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestFileStore_SetGetClear(t *testing.T) {
	s := newStore(t)
	payload := []byte(`{"username":"drsmith"}`)

	if err := s.Set(payload); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !s.IsValid() {
		t.Error("store should be valid after Set")
	}

	sess, err := s.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Username != "drsmith" {
		t.Errorf("expected username drsmith, got %q", sess.Username)
	}
	if string(sess.Raw) != string(payload) {
		t.Errorf("raw payload not preserved: %s", sess.Raw)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.IsValid() {
		t.Error("store should not be valid after Clear")
	}
}

func TestFileStore_ClearIdempotent(t *testing.T) {
	s := newStore(t)
	if err := s.Clear(); err != nil {
		t.Errorf("Clear on empty store should not fail: %v", err)
	}
}

// Any truthy stored value grants access: the payload is not inspected.
func TestFileStore_OpaquePayloadIsValid(t *testing.T) {
	s := newStore(t)
	if err := s.Set([]byte(`"whatever"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !s.IsValid() {
		t.Error("non-empty payload of any shape should be valid")
	}
	if err := RequireAuth(s); err != nil {
		t.Errorf("RequireAuth should pass: %v", err)
	}
}

func TestRequireAuth_NotLoggedIn(t *testing.T) {
	s := newStore(t)
	if err := RequireAuth(s); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}
