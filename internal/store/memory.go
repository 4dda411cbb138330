package store

import (
	"context"
	"sync"
	"time"

	"github.com/pmorvan/factuel/internal/model"
)

// MemoryStore is an in-memory Store used for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	facts   []model.StoredFact
	keys    map[string]string
	configs map[string]model.AutoConfig
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys:    make(map[string]string),
		configs: make(map[string]model.AutoConfig),
	}
}

func (s *MemoryStore) ListFacts(ctx context.Context) ([]model.StoredFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StoredFact, len(s.facts))
	copy(out, s.facts)
	return out, nil
}

func (s *MemoryStore) InsertFact(ctx context.Context, fact *model.StoredFact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fact.ID == "" {
		fact.ID = NewID()
	}
	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = time.Now().UTC()
	}
	if fact.Status == "" {
		fact.Status = model.StatusPending
	}
	s.facts = append(s.facts, *fact)
	return fact.ID, nil
}

func (s *MemoryStore) GetAPIKey(ctx context.Context, provider string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.keys[provider]
	if !ok {
		return "", ErrNotFound
	}
	return key, nil
}

func (s *MemoryStore) SetAPIKey(ctx context.Context, provider, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[provider] = key
	return nil
}

func (s *MemoryStore) ListAutoConfigs(ctx context.Context) ([]model.AutoConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AutoConfig, 0, len(s.configs))
	for _, c := range s.configs {
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryStore) SaveAutoConfig(ctx context.Context, cfg *model.AutoConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.ID == "" {
		cfg.ID = NewID()
	}
	s.configs[cfg.ID] = *cfg
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
