// Package core provides the response contract shared by all HTTP modules.
package core

import "net/http"

// Response renders itself onto the HTTP response.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Render writes the response, falling back to a plain 500 when rendering
// itself fails.
func Render(w http.ResponseWriter, r *http.Request, resp Response) {
	if err := resp.Render(w, r); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
