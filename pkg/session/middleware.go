package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Middleware loads the request's session into the context when one exists.
// Requests without a session pass through untouched.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.Get(r.Context(), r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if m.shouldUpdateActivity(session) {
			// Detached from the request context so cancellation on
			// response completion does not drop the write.
			go func(token string) {
				if err := m.store.UpdateActivity(context.Background(), token, time.Now()); err != nil {
					m.logger.Warn("session activity update failed", slog.Any("error", err))
				}
			}(session.Token)
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireAuth redirects unauthenticated requests to the login page.
func (m *Manager) RequireAuth(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := m.Get(r.Context(), r)
			if err != nil || !session.IsAuthenticated() {
				http.Redirect(w, r, loginURL, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}
