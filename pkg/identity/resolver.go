package identity

import (
	"context"
	"io"
	"log/slog"

	"github.com/taskdo/taskdo/pkg/logger"
)

// Resolver produces the canonical identity for a login attempt: mapping the
// provider payload and, when the provider omits email, attempting the
// secondary lookup before the identity reaches account reconciliation.
type Resolver struct {
	fetcher *EmailFetcher
	logger  *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used for recoverable lookup failures.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver. fetcher may be nil, in which case identities
// keep whatever email the mapper extracted.
func NewResolver(fetcher *EmailFetcher, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher: fetcher,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps the payload and fills a missing email through the provider's
// secondary endpoint. A failed secondary lookup is recoverable: it is logged
// and the login proceeds with an empty email. A malformed payload is not.
func (r *Resolver) Resolve(ctx context.Context, provider, subjectAttributeKey string, attrs map[string]any, accessToken string) (Identity, error) {
	id, err := Map(provider, subjectAttributeKey, attrs)
	if err != nil {
		return Identity{}, err
	}

	if id.Email == "" && r.fetcher != nil && r.fetcher.Supports(provider) {
		email, err := r.fetcher.PrimaryEmail(ctx, provider, accessToken)
		if err != nil {
			r.logger.WarnContext(ctx, "secondary email lookup failed",
				logger.Provider(provider),
				logger.Error(err),
			)
		} else {
			id.Email = email
		}
	}

	return id, nil
}
