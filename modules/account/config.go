// Package account exposes the HTTP surface for registration, password login,
// federated login, and logout.
package account

import "time"

// Config holds module-level settings shared by both login paths.
type Config struct {
	// PostLoginURL is where successful logins land.
	PostLoginURL string `env:"ACCOUNT_POST_LOGIN_URL" envDefault:"/tasks"`
	// LoginURL is the login page, also the target of failed logins.
	LoginURL string `env:"ACCOUNT_LOGIN_URL" envDefault:"/login"`
}

// OAuthProviderConfig holds the client registration for one federated
// provider. A provider with an empty ClientID is not wired into the router.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	StateTTL     time.Duration
}

// GoogleOAuthConfig holds the Google client registration.
type GoogleOAuthConfig struct {
	ClientID     string        `env:"GOOGLE_OAUTH_CLIENT_ID"`
	ClientSecret string        `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	RedirectURL  string        `env:"GOOGLE_OAUTH_REDIRECT_URL"`
	Scopes       []string      `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,email,profile"`
	StateTTL     time.Duration `env:"GOOGLE_OAUTH_STATE_TTL" envDefault:"10m"`
}

// GitHubOAuthConfig holds the GitHub client registration.
type GitHubOAuthConfig struct {
	ClientID     string        `env:"GITHUB_OAUTH_CLIENT_ID"`
	ClientSecret string        `env:"GITHUB_OAUTH_CLIENT_SECRET"`
	RedirectURL  string        `env:"GITHUB_OAUTH_REDIRECT_URL"`
	Scopes       []string      `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"user:email"`
	StateTTL     time.Duration `env:"GITHUB_OAUTH_STATE_TTL" envDefault:"10m"`
}

// KakaoOAuthConfig holds the Kakao client registration.
type KakaoOAuthConfig struct {
	ClientID     string        `env:"KAKAO_OAUTH_CLIENT_ID"`
	ClientSecret string        `env:"KAKAO_OAUTH_CLIENT_SECRET"`
	RedirectURL  string        `env:"KAKAO_OAUTH_REDIRECT_URL"`
	Scopes       []string      `env:"KAKAO_OAUTH_SCOPES" envSeparator:"," envDefault:"account_email,profile_nickname"`
	StateTTL     time.Duration `env:"KAKAO_OAUTH_STATE_TTL" envDefault:"10m"`
}

// NaverOAuthConfig holds the Naver client registration.
type NaverOAuthConfig struct {
	ClientID     string        `env:"NAVER_OAUTH_CLIENT_ID"`
	ClientSecret string        `env:"NAVER_OAUTH_CLIENT_SECRET"`
	RedirectURL  string        `env:"NAVER_OAUTH_REDIRECT_URL"`
	Scopes       []string      `env:"NAVER_OAUTH_SCOPES" envSeparator:","`
	StateTTL     time.Duration `env:"NAVER_OAUTH_STATE_TTL" envDefault:"10m"`
}

func (c GoogleOAuthConfig) provider() OAuthProviderConfig {
	return OAuthProviderConfig{c.ClientID, c.ClientSecret, c.RedirectURL, c.Scopes, c.StateTTL}
}

func (c GitHubOAuthConfig) provider() OAuthProviderConfig {
	return OAuthProviderConfig{c.ClientID, c.ClientSecret, c.RedirectURL, c.Scopes, c.StateTTL}
}

func (c KakaoOAuthConfig) provider() OAuthProviderConfig {
	return OAuthProviderConfig{c.ClientID, c.ClientSecret, c.RedirectURL, c.Scopes, c.StateTTL}
}

func (c NaverOAuthConfig) provider() OAuthProviderConfig {
	return OAuthProviderConfig{c.ClientID, c.ClientSecret, c.RedirectURL, c.Scopes, c.StateTTL}
}
