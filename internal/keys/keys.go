// Package keys resolves provider API keys from the configuration store.
package keys

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pmorvan/factuel/internal/store"
)

// ErrKeyNotConfigured means the provider has no key in the store. This is an
// administrator problem, not a transient one, so callers must not retry it.
var ErrKeyNotConfigured = errors.New("api key not configured")

// Resolver looks up provider API keys with short-lived memoization so the
// retry loop does not hit the store on every attempt.
type Resolver struct {
	store store.Store
	cache *gocache.Cache
}

// NewResolver creates a resolver caching lookups for ttl.
func NewResolver(s store.Store, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Resolver{
		store: s,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Get returns the key for a provider, or ErrKeyNotConfigured.
func (r *Resolver) Get(ctx context.Context, provider string) (string, error) {
	if key, found := r.cache.Get(provider); found {
		return key.(string), nil
	}

	key, err := r.store.GetAPIKey(ctx, provider)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotConfigured, provider)
	}
	if err != nil {
		return "", fmt.Errorf("fetch %s api key: %w", provider, err)
	}

	r.cache.SetDefault(provider, key)
	return key, nil
}

// Invalidate drops a cached key, forcing the next Get to hit the store.
func (r *Resolver) Invalidate(provider string) {
	r.cache.Delete(provider)
}
