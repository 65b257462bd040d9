package account

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/taskdo/taskdo/core"
	"github.com/taskdo/taskdo/pkg/authn"
	"github.com/taskdo/taskdo/pkg/logger"
	"github.com/taskdo/taskdo/pkg/session"
)

// LocalService handles registration and password login.
type LocalService struct {
	cfg      Config
	auth     *authn.LocalAuthenticator
	sessions *session.Manager
	logger   *slog.Logger
}

// LocalOption configures a LocalService.
type LocalOption func(*LocalService)

// WithLocalServiceLogger sets the logger for login and registration events.
func WithLocalServiceLogger(l *slog.Logger) LocalOption {
	return func(s *LocalService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewLocalService creates the password login service.
func NewLocalService(cfg Config, auth *authn.LocalAuthenticator, sessions *session.Manager, opts ...LocalOption) *LocalService {
	s := &LocalService{
		cfg:      cfg,
		auth:     auth,
		sessions: sessions,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a password account and sends the user to the login page.
func (s *LocalService) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		core.Render(w, r, core.Redirect("/register?error=form"))
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		core.Render(w, r, core.Redirect("/register?error=missing"))
		return
	}

	account, err := s.auth.Register(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, authn.ErrAccountExists) {
			core.Render(w, r, core.Redirect("/register?error=exists"))
			return
		}
		s.logger.ErrorContext(r.Context(), "registration failed", logger.Error(err))
		core.Render(w, r, core.Redirect("/register?error=server"))
		return
	}

	s.logger.InfoContext(r.Context(), "registration", logger.AccountID(account.ID))
	core.Render(w, r, core.Redirect(s.cfg.LoginURL+"?registered=1"))
}

// Login verifies the credentials and upgrades the session.
func (s *LocalService) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		core.Render(w, r, core.Redirect(s.cfg.LoginURL+"?error=form"))
		return
	}

	principal, err := s.auth.Authenticate(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, authn.ErrInvalidCredentials) {
			core.Render(w, r, core.Redirect(s.cfg.LoginURL+"?error=credentials"))
			return
		}
		s.logger.ErrorContext(r.Context(), "login failed", logger.Error(err))
		core.Render(w, r, core.Redirect(s.cfg.LoginURL+"?error=server"))
		return
	}

	if err := s.sessions.Authenticate(r.Context(), w, r, principal); err != nil {
		s.logger.ErrorContext(r.Context(), "session upgrade failed",
			logger.AccountID(principal.AccountID),
			logger.Error(err),
		)
		core.Render(w, r, core.Redirect(s.cfg.LoginURL+"?error=server"))
		return
	}

	s.logger.InfoContext(r.Context(), "local login", logger.AccountID(principal.AccountID))
	core.Render(w, r, core.Redirect(s.cfg.PostLoginURL))
}

// Logout destroys the session and returns to the login page.
func (s *LocalService) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(r.Context(), w, r); err != nil {
		s.logger.ErrorContext(r.Context(), "logout failed", logger.Error(err))
	}
	core.Render(w, r, core.Redirect(s.cfg.LoginURL))
}

// Me returns the authenticated principal as JSON.
func (s *LocalService) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		core.Render(w, r, core.JSONError(core.ErrUnauthorized))
		return
	}
	core.Render(w, r, core.JSON("me", principal))
}
