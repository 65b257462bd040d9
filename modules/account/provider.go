package account

import (
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/kakao"

	"github.com/taskdo/taskdo/pkg/identity"
)

// Provider binds a provider name to its OAuth client, userinfo endpoint, and
// the attribute that carries the subject in the userinfo payload.
type Provider struct {
	Name                string
	OAuth               *oauth2.Config
	UserInfoURL         string
	SubjectAttributeKey string
	StateTTL            time.Duration
}

// NewGoogleProvider creates the Google provider from its client registration.
func NewGoogleProvider(cfg GoogleOAuthConfig) *Provider {
	return newProvider(identity.ProviderGoogle, cfg.provider(), endpoints.Google,
		"https://www.googleapis.com/oauth2/v3/userinfo", "sub")
}

// NewGitHubProvider creates the GitHub provider from its client registration.
func NewGitHubProvider(cfg GitHubOAuthConfig) *Provider {
	return newProvider(identity.ProviderGithub, cfg.provider(), endpoints.GitHub,
		"https://api.github.com/user", "id")
}

// NewKakaoProvider creates the Kakao provider from its client registration.
func NewKakaoProvider(cfg KakaoOAuthConfig) *Provider {
	return newProvider(identity.ProviderKakao, cfg.provider(), kakao.Endpoint,
		"https://kapi.kakao.com/v2/user/me", "id")
}

// NewNaverProvider creates the Naver provider from its client registration.
func NewNaverProvider(cfg NaverOAuthConfig) *Provider {
	return newProvider(identity.ProviderNaver, cfg.provider(), endpoints.Naver,
		"https://openapi.naver.com/v1/nid/me", "response")
}

func newProvider(name string, cfg OAuthProviderConfig, endpoint oauth2.Endpoint, userInfoURL, subjectKey string) *Provider {
	ttl := cfg.StateTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Provider{
		Name: name,
		OAuth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		UserInfoURL:         userInfoURL,
		SubjectAttributeKey: subjectKey,
		StateTTL:            ttl,
	}
}
