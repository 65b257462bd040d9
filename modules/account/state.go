package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidState indicates an unknown or already-consumed OAuth state.
var ErrInvalidState = errors.New("account: invalid oauth state")

// StateStore issues and consumes one-time OAuth state tokens.
type StateStore interface {
	// Store records a state token that expires after ttl.
	Store(ctx context.Context, state string, ttl time.Duration) error

	// Consume atomically checks and removes a state token. Returns
	// ErrInvalidState when the token is unknown, expired, or already used.
	Consume(ctx context.Context, state string) error
}

// generateState creates a cryptographically random state token.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RedisStateStore keeps state tokens in Redis so callbacks can land on any
// instance behind a load balancer.
type RedisStateStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStateStore creates a Redis-backed state store.
func NewRedisStateStore(client redis.UniversalClient) *RedisStateStore {
	return &RedisStateStore{client: client, keyPrefix: "oauth_state:"}
}

var _ StateStore = (*RedisStateStore)(nil)

func (s *RedisStateStore) Store(ctx context.Context, state string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+state, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("store state: %w", err)
	}
	if !ok {
		return ErrInvalidState
	}
	return nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) error {
	// GETDEL makes check-and-remove a single atomic operation.
	if err := s.client.GetDel(ctx, s.keyPrefix+state).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidState
		}
		return fmt.Errorf("consume state: %w", err)
	}
	return nil
}

// MemoryStateStore keeps state tokens in memory for development and tests.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

// NewMemoryStateStore creates an in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]time.Time)}
}

var _ StateStore = (*MemoryStateStore)(nil)

func (s *MemoryStateStore) Store(ctx context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Abandoned logins never call Consume; sweep their leftovers here.
	now := time.Now()
	for key, expiresAt := range s.states {
		if now.After(expiresAt) {
			delete(s.states, key)
		}
	}

	if _, exists := s.states[state]; exists {
		return ErrInvalidState
	}
	s.states[state] = now.Add(ttl)
	return nil
}

func (s *MemoryStateStore) Consume(ctx context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, exists := s.states[state]
	if !exists {
		return ErrInvalidState
	}
	delete(s.states, state)

	if time.Now().After(expiresAt) {
		return ErrInvalidState
	}
	return nil
}
