package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// emailEndpoint describes a provider's out-of-band email listing API.
type emailEndpoint struct {
	url    string
	accept string
}

// defaultEmailEndpoints lists the providers known to omit email from their
// primary profile response.
var defaultEmailEndpoints = map[string]emailEndpoint{
	ProviderGithub: {
		url:    "https://api.github.com/user/emails",
		accept: "application/vnd.github.v3+json",
	},
}

// EmailFetcher recovers a primary email address through a provider's
// secondary email endpoint when the profile payload omits it.
type EmailFetcher struct {
	httpClient *http.Client
	endpoints  map[string]emailEndpoint
}

// EmailFetcherOption configures an EmailFetcher.
type EmailFetcherOption func(*EmailFetcher)

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) EmailFetcherOption {
	return func(f *EmailFetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithEmailEndpoint overrides the email endpoint URL for a provider.
func WithEmailEndpoint(provider, url string) EmailFetcherOption {
	return func(f *EmailFetcher) {
		ep := f.endpoints[provider]
		ep.url = url
		f.endpoints[provider] = ep
	}
}

// NewEmailFetcher creates a fetcher with the default provider endpoints.
func NewEmailFetcher(opts ...EmailFetcherOption) *EmailFetcher {
	f := &EmailFetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoints:  make(map[string]emailEndpoint, len(defaultEmailEndpoints)),
	}
	for provider, ep := range defaultEmailEndpoints {
		f.endpoints[provider] = ep
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Supports reports whether the provider has a secondary email endpoint.
func (f *EmailFetcher) Supports(provider string) bool {
	_, ok := f.endpoints[provider]
	return ok
}

type providerEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// PrimaryEmail performs a single authenticated call to the provider's email
// endpoint and returns the address flagged primary. When no entry is flagged
// primary it returns empty with no error; the caller proceeds without an
// email rather than guessing. Transport and decoding failures are returned
// as errors for the caller's recoverable-failure policy.
func (f *EmailFetcher) PrimaryEmail(ctx context.Context, provider, accessToken string) (string, error) {
	ep, ok := f.endpoints[provider]
	if !ok {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if ep.accept != "" {
		req.Header.Set("Accept", ep.accept)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity: %s email endpoint returned status %d", provider, resp.StatusCode)
	}

	var emails []providerEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}

	return "", nil
}
