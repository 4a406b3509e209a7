package profile

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/edumind/edumind/internal/store"
)

// Session carries the current user through the app. There is no real
// authentication backend; Login fabricates an identity and persists it.
type Session struct {
	kv   *store.Store
	user *User
}

// NewSession creates a session over kv with no user loaded.
func NewSession(kv *store.Store) *Session {
	return &Session{kv: kv}
}

// Load restores the persisted user, if any. An absent or unparseable
// record leaves the session signed out.
func (s *Session) Load() {
	var u User
	if err := s.kv.GetJSON(store.KeyCurrentUser, &u); err == nil && u.ID != "" {
		s.user = &u
	}
}

// User returns the signed-in user, or nil.
func (s *Session) User() *User {
	return s.user
}

// Login fabricates a user and persists it. When name is empty it
// defaults to the local part of the email address.
func (s *Session) Login(name, email string) (*User, error) {
	if name == "" {
		name = email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
	}
	u := &User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}
	if err := s.kv.PutJSON(store.KeyCurrentUser, u); err != nil {
		return nil, fmt.Errorf("persist user: %w", err)
	}
	s.user = u
	return u, nil
}

// Logout deletes the stored user. History collections are left intact.
func (s *Session) Logout() error {
	s.user = nil
	return s.kv.Delete(store.KeyCurrentUser)
}

// RecordQuizResult folds a completed quiz into the user's profile and
// persists it. A signed-out session is a no-op.
func (s *Session) RecordQuizResult(score float64, topic string) error {
	if s.user == nil {
		return nil
	}
	s.user.Progress = ApplyQuizResult(s.user.Progress, score, topic)
	if err := s.kv.PutJSON(store.KeyCurrentUser, s.user); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}
