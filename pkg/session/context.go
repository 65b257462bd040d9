package session

import (
	"context"

	"github.com/taskdo/taskdo/pkg/authn"
)

type sessionContextKey struct{}

// WithSession adds a session to the context.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext retrieves a session from the context.
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok
}

// PrincipalFromContext retrieves the authenticated principal from the
// session in context. The second return is false for anonymous sessions.
func PrincipalFromContext(ctx context.Context) (authn.Principal, bool) {
	session, ok := FromContext(ctx)
	if !ok || !session.IsAuthenticated() {
		return authn.Principal{}, false
	}
	return session.Principal, true
}
