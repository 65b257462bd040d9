package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis. Sessions are stored as JSON under a
// prefixed key with a TTL matching the session expiry, so expired sessions
// disappear without a sweep.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: "session:",
	}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) key(token string) string {
	return s.keyPrefix + token
}

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}
	return s.write(ctx, session)
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if session.IsExpired() {
		_ = s.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	return &session, nil
}

func (s *RedisStore) UpdateActivity(ctx context.Context, token string, lastActivity time.Time) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		return err
	}

	session.LastActivityAt = lastActivity
	return s.write(ctx, session)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: key TTLs expire sessions server-side.
func (s *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

func (s *RedisStore) write(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	if err := s.client.Set(ctx, s.key(session.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
