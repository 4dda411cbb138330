package keys

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pmorvan/factuel/internal/store"
)

func TestResolver_Missing(t *testing.T) {
	r := NewResolver(store.NewMemoryStore(), time.Minute)
	_, err := r.Get(context.Background(), "deepseek")
	if !errors.Is(err, ErrKeyNotConfigured) {
		t.Errorf("expected ErrKeyNotConfigured, got %v", err)
	}
}

func TestResolver_GetAndCache(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	_ = s.SetAPIKey(ctx, "deepseek", "sk-one")

	r := NewResolver(s, time.Minute)
	key, err := r.Get(ctx, "deepseek")
	if err != nil || key != "sk-one" {
		t.Fatalf("Get = (%q, %v), want (sk-one, nil)", key, err)
	}

	// Key change is invisible until the cache entry is invalidated.
	_ = s.SetAPIKey(ctx, "deepseek", "sk-two")
	key, _ = r.Get(ctx, "deepseek")
	if key != "sk-one" {
		t.Errorf("expected cached key sk-one, got %q", key)
	}

	r.Invalidate("deepseek")
	key, _ = r.Get(ctx, "deepseek")
	if key != "sk-two" {
		t.Errorf("expected fresh key sk-two after invalidation, got %q", key)
	}
}
