package account

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"github.com/taskdo/taskdo/core"
	"github.com/taskdo/taskdo/pkg/authn"
	"github.com/taskdo/taskdo/pkg/identity"
	"github.com/taskdo/taskdo/pkg/logger"
	"github.com/taskdo/taskdo/pkg/session"
)

// OAuthService drives the federated login flow: entry redirect with a
// one-time state, then the callback that exchanges the code, resolves the
// identity, reconciles the account, and upgrades the session.
type OAuthService struct {
	cfg        Config
	providers  map[string]*Provider
	states     StateStore
	resolver   *identity.Resolver
	reconciler *authn.Reconciler
	sessions   *session.Manager
	httpClient *http.Client
	logger     *slog.Logger
}

// OAuthOption configures an OAuthService.
type OAuthOption func(*OAuthService)

// WithOAuthLogger sets the logger for login flow events.
func WithOAuthLogger(l *slog.Logger) OAuthOption {
	return func(s *OAuthService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOAuthHTTPClient sets the client used for token exchange and userinfo
// requests.
func WithOAuthHTTPClient(c *http.Client) OAuthOption {
	return func(s *OAuthService) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// NewOAuthService creates the federated login service with the given
// providers.
func NewOAuthService(
	cfg Config,
	providers []*Provider,
	states StateStore,
	resolver *identity.Resolver,
	reconciler *authn.Reconciler,
	sessions *session.Manager,
	opts ...OAuthOption,
) *OAuthService {
	s := &OAuthService{
		cfg:        cfg,
		providers:  make(map[string]*Provider, len(providers)),
		states:     states,
		resolver:   resolver,
		reconciler: reconciler,
		sessions:   sessions,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, p := range providers {
		s.providers[p.Name] = p
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin redirects the browser to the provider's authorization page with a
// freshly issued state token.
func (s *OAuthService) Begin(w http.ResponseWriter, r *http.Request) {
	p, ok := s.providers[chi.URLParam(r, "provider")]
	if !ok {
		core.Render(w, r, core.JSONError(core.ErrNotFound))
		return
	}

	state, err := generateState()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to issue oauth state", logger.Error(err))
		core.Render(w, r, core.JSONError(core.ErrInternalServerError))
		return
	}

	if err := s.states.Store(r.Context(), state, p.StateTTL); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to store oauth state", logger.Error(err))
		core.Render(w, r, core.JSONError(core.ErrInternalServerError))
		return
	}

	core.Render(w, r, core.RedirectWithCode(p.OAuth.AuthCodeURL(state), http.StatusFound))
}

// Callback finishes the federated login. Every failure path lands back on
// the login page with an error code; only a full success reaches the task
// list.
func (s *OAuthService) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := s.providers[chi.URLParam(r, "provider")]
	if !ok {
		core.Render(w, r, core.JSONError(core.ErrNotFound))
		return
	}

	query := r.URL.Query()
	if query.Get("error") != "" {
		s.rejectLogin(w, r, "denied")
		return
	}

	if err := s.states.Consume(ctx, query.Get("state")); err != nil {
		s.logger.WarnContext(ctx, "oauth state rejected",
			logger.Provider(p.Name),
			logger.Error(err),
		)
		s.rejectLogin(w, r, "state")
		return
	}

	token, err := p.OAuth.Exchange(s.exchangeContext(ctx), query.Get("code"))
	if err != nil {
		s.logger.WarnContext(ctx, "oauth code exchange failed",
			logger.Provider(p.Name),
			logger.Error(err),
		)
		s.rejectLogin(w, r, "exchange")
		return
	}

	attrs, err := s.fetchUserInfo(ctx, p, token.AccessToken)
	if err != nil {
		s.logger.WarnContext(ctx, "userinfo request failed",
			logger.Provider(p.Name),
			logger.Error(err),
		)
		s.rejectLogin(w, r, "profile")
		return
	}

	id, err := s.resolver.Resolve(ctx, p.Name, p.SubjectAttributeKey, attrs, token.AccessToken)
	if err != nil {
		s.logger.WarnContext(ctx, "identity resolution failed",
			logger.Provider(p.Name),
			logger.Error(err),
		)
		s.rejectLogin(w, r, "profile")
		return
	}

	account, err := s.reconciler.Reconcile(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "account reconciliation failed",
			logger.Provider(p.Name),
			logger.Error(err),
		)
		s.rejectLogin(w, r, "server")
		return
	}

	if err := s.sessions.Authenticate(ctx, w, r, authn.FederatedPrincipal(account, id)); err != nil {
		s.logger.ErrorContext(ctx, "session upgrade failed",
			logger.AccountID(account.ID),
			logger.Error(err),
		)
		s.rejectLogin(w, r, "server")
		return
	}

	s.logger.InfoContext(ctx, "federated login",
		logger.AccountID(account.ID),
		logger.Provider(p.Name),
	)
	core.Render(w, r, core.Redirect(s.cfg.PostLoginURL))
}

func (s *OAuthService) rejectLogin(w http.ResponseWriter, r *http.Request, reason string) {
	core.Render(w, r, core.Redirect(s.cfg.LoginURL+"?error="+reason))
}

// exchangeContext routes the oauth2 token exchange through our HTTP client.
func (s *OAuthService) exchangeContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

func (s *OAuthService) fetchUserInfo(ctx context.Context, p *Provider, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s userinfo returned status %d", p.Name, resp.StatusCode)
	}

	var attrs map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("decode %s userinfo: %w", p.Name, err)
	}
	return attrs, nil
}
