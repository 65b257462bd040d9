package core

import (
	"net/http"
	"net/url"
)

type redirectResponse struct {
	url  string
	code int
}

func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Redirect creates a redirect response with status 303 (See Other).
func Redirect(url string) Response {
	return redirectResponse{
		url:  url,
		code: http.StatusSeeOther,
	}
}

// RedirectWithCode creates a redirect response with a specific status code.
func RedirectWithCode(url string, code int) Response {
	return redirectResponse{
		url:  url,
		code: code,
	}
}

type redirectBackResponse struct {
	fallback string
	code     int
}

func (r redirectBackResponse) Render(w http.ResponseWriter, req *http.Request) error {
	referer := req.Header.Get("Referer")
	targetURL := r.fallback

	if referer != "" && isValidRedirectURL(referer, req) {
		targetURL = referer
	}

	http.Redirect(w, req, targetURL, r.code)
	return nil
}

// RedirectBack redirects to the referrer when it belongs to the same host,
// otherwise to the fallback URL.
func RedirectBack(fallback string) Response {
	return redirectBackResponse{
		fallback: fallback,
		code:     http.StatusSeeOther,
	}
}

// isValidRedirectURL checks if a URL is safe to redirect to. Empty host
// means a relative URL.
func isValidRedirectURL(urlStr string, r *http.Request) bool {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return parsed.Host == "" || parsed.Host == r.Host
}
