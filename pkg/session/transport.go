package session

import (
	"net/http"
	"time"
)

// Transport defines how session tokens travel between client and server.
type Transport interface {
	// GetToken extracts the session token from the request.
	GetToken(r *http.Request) (string, error)

	// SetToken sends the session token in the response.
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error

	// ClearToken removes the session token from the response.
	ClearToken(w http.ResponseWriter) error
}

// CookieTransport carries the session token in an HTTP-only cookie.
type CookieTransport struct {
	name   string
	secure bool
}

// NewCookieTransport creates a cookie transport with the given cookie name.
func NewCookieTransport(name string, secure bool) *CookieTransport {
	if name == "" {
		name = "sid"
	}
	return &CookieTransport{name: name, secure: secure}
}

var _ Transport = (*CookieTransport)(nil)

func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	c, err := r.Cookie(t.name)
	if err != nil || c.Value == "" {
		return "", ErrNoToken
	}
	return c.Value, nil
}

func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
