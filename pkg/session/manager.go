package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskdo/taskdo/pkg/authn"
)

// Manager handles session lifecycle over a Store and a Transport.
type Manager struct {
	store     Store
	transport Transport
	config    Config
	logger    *slog.Logger
}

// New creates a session manager. Without options it uses an in-memory store
// and cookie transport, which is enough for development.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}
	if m.transport == nil {
		m.transport = NewCookieTransport(m.config.CookieName, m.config.SecureCookies)
	}

	return m
}

// Ensure returns the request's session, creating an anonymous one when the
// request carries no valid token.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	session, err := m.Get(ctx, r)
	if err == nil {
		return session, nil
	}
	_ = m.transport.ClearToken(w)

	session, err = m.createSession(ctx, authn.Principal{})
	if err != nil {
		return nil, err
	}

	idle, _ := m.config.GetTimeouts(false)
	if err := m.transport.SetToken(w, session.Token, idle); err != nil {
		_ = m.store.Delete(ctx, session.Token)
		return nil, err
	}

	return session, nil
}

// Get retrieves an existing, unexpired session for the request.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Authenticate attaches the principal to the request's session. The token is
// rotated so a pre-login token can never address an authenticated session.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, principal authn.Principal) error {
	session, err := m.Get(ctx, r)
	if err != nil {
		session, err = m.createSession(ctx, principal)
		if err != nil {
			return err
		}
	} else {
		newToken, err := generateToken()
		if err != nil {
			return err
		}
		if err := m.store.Delete(ctx, session.Token); err != nil {
			m.logger.WarnContext(ctx, "failed to delete pre-login session", slog.Any("error", err))
		}

		session.Token = newToken
		session.Principal = principal
		idle, max := m.config.GetTimeouts(true)
		session.ExpiresAt = m.calculateExpiry(session.CreatedAt, time.Now(), idle, max)
		session.Touch()

		if err := m.store.Create(ctx, session); err != nil {
			return err
		}
	}

	idle, _ := m.config.GetTimeouts(true)
	return m.transport.SetToken(w, session.Token, idle)
}

// Destroy deletes the session and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}

	return m.transport.ClearToken(w)
}

func (m *Manager) createSession(ctx context.Context, principal authn.Principal) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	idle, max := m.config.GetTimeouts(principal.IsAuthenticated())
	now := time.Now()

	session := NewSession(token, m.calculateExpiry(now, now, idle, max).Sub(now))
	session.Principal = principal

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (m *Manager) shouldUpdateActivity(session *Session) bool {
	return time.Since(session.LastActivityAt) >= m.config.ActivityUpdateThreshold
}

// calculateExpiry returns the next expiry time, the lesser of the idle
// window and the absolute lifetime.
func (m *Manager) calculateExpiry(createdAt, now time.Time, idle, max time.Duration) time.Time {
	idleExpiry := now.Add(idle)
	maxExpiry := createdAt.Add(max)

	if maxExpiry.Before(idleExpiry) {
		return maxExpiry
	}
	return idleExpiry
}

// generateToken creates a cryptographically secure token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
