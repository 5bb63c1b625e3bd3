// Package session holds per-browser key/value state, its storage backends,
// and the gin middleware that binds a session to each request.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Store when the id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Flash kinds rendered on the next page.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Store persists sessions between requests.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Session is a mutable per-user key/value map. Values are kept JSON-encoded
// so every backend stores the same representation.
type Session struct {
	ID     string
	Values map[string]json.RawMessage
	isNew  bool
}

// New returns an empty session that has not been stored yet.
func New(id string) *Session {
	return &Session{ID: id, Values: map[string]json.RawMessage{}, isNew: true}
}

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool { return s.isNew }

// Get decodes the value stored under key into v. It reports false if the key is absent.
func (s *Session) Get(key string, v any) (bool, error) {
	raw, ok := s.Values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("session key %q: %w", key, err)
	}
	return true, nil
}

// Set stores v under key.
func (s *Session) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session key %q: %w", key, err)
	}
	s.Values[key] = b
	return nil
}

// AddFlash records a one-shot message of the given kind.
func (s *Session) AddFlash(kind, msg string) {
	// A string always marshals.
	_ = s.Set(kind, msg)
}

// PopFlash returns and clears the message of the given kind.
func (s *Session) PopFlash(kind string) string {
	var msg string
	if ok, err := s.Get(kind, &msg); !ok || err != nil {
		return ""
	}
	delete(s.Values, kind)
	return msg
}

func encodeValues(v map[string]json.RawMessage) ([]byte, error) {
	return json.Marshal(v)
}

func decodeValues(id string, b []byte) (*Session, error) {
	vals := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &vals); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &Session{ID: id, Values: vals}, nil
}

// NewID returns a random 128-bit hex session id.
func NewID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
