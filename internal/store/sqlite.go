package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/pmorvan/factuel/internal/model"
)

// sqliteStore implements Store on a local SQLite database.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite-backed store with WAL mode
// enabled.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL gives the scheduler and CLI readers better concurrency.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS facts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	source TEXT NOT NULL,
	category TEXT NOT NULL,
	wtf_score REAL NOT NULL,
	contested_theory TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	translations TEXT,
	image_url TEXT,
	video_url TEXT,
	created_at TEXT NOT NULL,
	approved_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_facts_title ON facts(title);
CREATE INDEX IF NOT EXISTS idx_facts_status ON facts(status);

CREATE TABLE IF NOT EXISTS api_keys (
	provider TEXT PRIMARY KEY,
	key TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS auto_configs (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	languages TEXT NOT NULL,
	enabled INTEGER NOT NULL DEFAULT 0,
	auto_approve INTEGER NOT NULL DEFAULT 0,
	min_interval_hours REAL NOT NULL,
	max_interval_hours REAL NOT NULL,
	last_generation TEXT,
	next_generation TEXT
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) ListFacts(ctx context.Context) ([]model.StoredFact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, source, category, wtf_score, contested_theory,
		       status, translations, image_url, video_url, created_at, approved_at
		FROM facts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	defer rows.Close()

	var facts []model.StoredFact
	for rows.Next() {
		var (
			f            model.StoredFact
			translations sql.NullString
			imageURL     sql.NullString
			videoURL     sql.NullString
			createdAt    string
			approvedAt   sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Title, &f.Content, &f.Source, &f.Category,
			&f.WtfScore, &f.ContestedTheory, &f.Status, &translations,
			&imageURL, &videoURL, &createdAt, &approvedAt); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}

		if translations.Valid && translations.String != "" {
			if err := json.Unmarshal([]byte(translations.String), &f.Translations); err != nil {
				return nil, fmt.Errorf("decode translations for %s: %w", f.ID, err)
			}
		}
		f.ImageURL = imageURL.String
		f.VideoURL = videoURL.String
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			f.CreatedAt = t
		}
		if approvedAt.Valid {
			if t, err := time.Parse(time.RFC3339, approvedAt.String); err == nil {
				f.ApprovedAt = &t
			}
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (s *sqliteStore) InsertFact(ctx context.Context, fact *model.StoredFact) (string, error) {
	if fact.ID == "" {
		fact.ID = NewID()
	}
	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = time.Now().UTC()
	}
	if fact.Status == "" {
		fact.Status = model.StatusPending
	}

	var translations any
	if len(fact.Translations) > 0 {
		data, err := json.Marshal(fact.Translations)
		if err != nil {
			return "", fmt.Errorf("encode translations: %w", err)
		}
		translations = string(data)
	}

	var approvedAt any
	if fact.ApprovedAt != nil {
		approvedAt = fact.ApprovedAt.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO facts (id, title, content, source, category, wtf_score,
		                   contested_theory, status, translations, image_url,
		                   video_url, created_at, approved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fact.ID, fact.Title, fact.Content, fact.Source, fact.Category,
		fact.WtfScore, fact.ContestedTheory, fact.Status, translations,
		nullable(fact.ImageURL), nullable(fact.VideoURL),
		fact.CreatedAt.UTC().Format(time.RFC3339), approvedAt)
	if err != nil {
		return "", fmt.Errorf("insert fact: %w", err)
	}
	return fact.ID, nil
}

func (s *sqliteStore) GetAPIKey(ctx context.Context, provider string) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx, "SELECT key FROM api_keys WHERE provider = ?", provider).Scan(&key)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get api key: %w", err)
	}
	return key, nil
}

func (s *sqliteStore) SetAPIKey(ctx context.Context, provider, key string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (provider, key) VALUES (?, ?)
		ON CONFLICT(provider) DO UPDATE SET key = excluded.key`, provider, key)
	if err != nil {
		return fmt.Errorf("set api key: %w", err)
	}
	return nil
}

func (s *sqliteStore) ListAutoConfigs(ctx context.Context) ([]model.AutoConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, languages, enabled, auto_approve,
		       min_interval_hours, max_interval_hours, last_generation, next_generation
		FROM auto_configs`)
	if err != nil {
		return nil, fmt.Errorf("list auto configs: %w", err)
	}
	defer rows.Close()

	var configs []model.AutoConfig
	for rows.Next() {
		var (
			c         model.AutoConfig
			languages string
			lastGen   sql.NullString
			nextGen   sql.NullString
			enabled   int
			autoAppr  int
		)
		if err := rows.Scan(&c.ID, &c.Category, &languages, &enabled, &autoAppr,
			&c.MinIntervalHrs, &c.MaxIntervalHrs, &lastGen, &nextGen); err != nil {
			return nil, fmt.Errorf("scan auto config: %w", err)
		}
		if err := json.Unmarshal([]byte(languages), &c.Languages); err != nil {
			return nil, fmt.Errorf("decode languages for %s: %w", c.ID, err)
		}
		c.Enabled = enabled != 0
		c.AutoApprove = autoAppr != 0
		if lastGen.Valid {
			if t, err := time.Parse(time.RFC3339, lastGen.String); err == nil {
				c.LastGeneration = t
			}
		}
		if nextGen.Valid {
			if t, err := time.Parse(time.RFC3339, nextGen.String); err == nil {
				c.NextGeneration = t
			}
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (s *sqliteStore) SaveAutoConfig(ctx context.Context, cfg *model.AutoConfig) error {
	if cfg.ID == "" {
		cfg.ID = NewID()
	}
	languages, err := json.Marshal(cfg.Languages)
	if err != nil {
		return fmt.Errorf("encode languages: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO auto_configs (id, category, languages, enabled, auto_approve,
		                          min_interval_hours, max_interval_hours,
		                          last_generation, next_generation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			languages = excluded.languages,
			enabled = excluded.enabled,
			auto_approve = excluded.auto_approve,
			min_interval_hours = excluded.min_interval_hours,
			max_interval_hours = excluded.max_interval_hours,
			last_generation = excluded.last_generation,
			next_generation = excluded.next_generation`,
		cfg.ID, cfg.Category, string(languages), boolInt(cfg.Enabled),
		boolInt(cfg.AutoApprove), cfg.MinIntervalHrs, cfg.MaxIntervalHrs,
		timeOrNil(cfg.LastGeneration), timeOrNil(cfg.NextGeneration))
	if err != nil {
		return fmt.Errorf("save auto config: %w", err)
	}
	return nil
}

// NewID returns a lexically sortable unique id for new records.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timeOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
