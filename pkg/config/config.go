// Package config loads typed configuration structs from environment
// variables, with an optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig = errors.New("config: failed to parse environment variables")
	ErrNilPointer    = errors.New("config: nil pointer provided")
)

var (
	mu     sync.RWMutex
	loaded = make(map[string]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into cfg based on `env` struct tags.
// Each config type is parsed once per process; later calls for the same type
// return the cached value so every component sees identical settings.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// Missing .env is fine; real environments set variables directly.
		_ = godotenv.Load()
	})
	if cfg == nil {
		return ErrNilPointer
	}

	key := typeName[T]()

	mu.RLock()
	if v, ok := loaded[key]; ok {
		*cfg = v.(T)
		mu.RUnlock()
		return nil
	}
	mu.RUnlock()

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	mu.Lock()
	// First writer wins so concurrent loaders agree on one value.
	if v, ok := loaded[key]; ok {
		*cfg = v.(T)
	} else {
		loaded[key] = *cfg
	}
	mu.Unlock()

	return nil
}

// MustLoad is Load for configuration the application cannot start without.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("config: required configuration failed to load: %v", err))
	}
}

func typeName[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}
