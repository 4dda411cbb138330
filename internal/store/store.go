// Package store persists the fact corpus, API keys, and auto-generation
// configuration. The generation core only reads existing facts for duplicate
// comparison and inserts new records; moderation status transitions belong to
// the surrounding application.
package store

import (
	"context"
	"errors"

	"github.com/pmorvan/factuel/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the corpus and configuration persistence interface.
type Store interface {
	// ListFacts returns every stored fact. Duplicate detection scans the
	// full corpus, so this is re-queried per generation attempt.
	ListFacts(ctx context.Context) ([]model.StoredFact, error)

	// InsertFact persists a new fact and returns its assigned id. A blank
	// fact id is filled in with a generated one.
	InsertFact(ctx context.Context, fact *model.StoredFact) (string, error)

	// GetAPIKey fetches the key for a provider, or ErrNotFound.
	GetAPIKey(ctx context.Context, provider string) (string, error)

	// SetAPIKey stores or replaces a provider key.
	SetAPIKey(ctx context.Context, provider, key string) error

	// ListAutoConfigs returns all auto-generation configurations.
	ListAutoConfigs(ctx context.Context) ([]model.AutoConfig, error)

	// SaveAutoConfig inserts or updates a configuration.
	SaveAutoConfig(ctx context.Context, cfg *model.AutoConfig) error

	Close() error
}
