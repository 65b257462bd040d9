// Package session tracks browser sessions for the task application. A
// session starts anonymous and is upgraded in place when either login path
// produces a principal.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskdo/taskdo/pkg/authn"
)

// Session is the server-side state addressed by the cookie token. Principal
// is the zero value until a login upgrades the session. Data holds one-off
// values such as flash messages and OAuth state fallbacks.
type Session struct {
	ID             uuid.UUID       `json:"id"`
	Token          string          `json:"token"`
	Principal      authn.Principal `json:"principal,omitzero"`
	Data           map[string]any  `json:"data,omitempty"`
	ExpiresAt      time.Time       `json:"expires_at"`
	LastActivityAt time.Time       `json:"last_activity_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewSession creates an anonymous session with the given token and lifetime.
func NewSession(token string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		Data:           make(map[string]any),
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsAuthenticated reports whether a principal is attached.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Principal.IsAuthenticated()
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// Set stores a value in session data.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// Delete removes a value from session data.
func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}

// Touch updates the last activity time.
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}
