// Package scheduler runs unattended fact generation from per-category
// configurations: each enabled config periodically produces one fact,
// translates it, and persists it with the configured moderation status.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/pipeline"
	"github.com/pmorvan/factuel/internal/store"
	"github.com/pmorvan/factuel/internal/worker"
)

// FactGenerator produces one validated, non-duplicate fact for a prompt.
type FactGenerator interface {
	Generate(ctx context.Context, prompt string) (*model.GeneratedFact, error)
}

// FactTranslator renders a fact into target languages.
type FactTranslator interface {
	TranslateAll(ctx context.Context, fact pipeline.TranslatableFact, langs []model.Language) map[model.Language]model.Translation
}

// MediaLookup finds related media for a fact.
type MediaLookup interface {
	Find(ctx context.Context, fact *model.GeneratedFact) pipeline.Media
}

// Runner drives scheduled generation over the stored auto-configs.
type Runner struct {
	generator  FactGenerator
	translator FactTranslator
	media      MediaLookup // nil when media lookup is disabled
	store      store.Store

	// concurrency 1 (the default) serializes generation, which keeps the
	// duplicate check race-free within one runner.
	concurrency int

	now  func() time.Time
	logw io.Writer
}

// New creates a runner.
func New(g FactGenerator, t FactTranslator, m MediaLookup, s store.Store, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Runner{
		generator:   g,
		translator:  t,
		media:       m,
		store:       s,
		concurrency: concurrency,
		now:         time.Now,
		logw:        os.Stderr,
	}
}

// SetLogWriter redirects progress logging (used by tests).
func (r *Runner) SetLogWriter(w io.Writer) { r.logw = w }

// RunOnce processes every due config and returns how many facts were
// generated. Per-config failures are logged and skipped; the run itself only
// fails when the config list cannot be read.
func (r *Runner) RunOnce(ctx context.Context) (int, error) {
	configs, err := r.store.ListAutoConfigs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list auto configs: %w", err)
	}

	now := r.now()
	var due []model.AutoConfig
	for _, cfg := range configs {
		if cfg.Due(now) {
			due = append(due, cfg)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	results := worker.Map(ctx, r.concurrency, due, func(ctx context.Context, cfg model.AutoConfig) bool {
		if err := r.generateFor(ctx, cfg); err != nil {
			fmt.Fprintf(r.logw, "auto generation for %q failed: %v\n", cfg.Category, err)
			return false
		}
		return true
	})

	generated := 0
	for _, ok := range results {
		if ok {
			generated++
		}
	}
	return generated, nil
}

// Run loops RunOnce on the given interval until ctx is done.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := r.RunOnce(ctx); err != nil {
			fmt.Fprintf(r.logw, "scheduler run failed: %v\n", err)
		} else if n > 0 {
			fmt.Fprintf(r.logw, "scheduler generated %d fact(s)\n", n)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) generateFor(ctx context.Context, cfg model.AutoConfig) error {
	prompt := fmt.Sprintf("Generate a scientific fact in the category: %s", cfg.Category)
	fact, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	stored := &model.StoredFact{GeneratedFact: *fact, Status: model.StatusPending}
	if cfg.AutoApprove {
		stored.Status = model.StatusApproved
		now := r.now().UTC()
		stored.ApprovedAt = &now
	}

	if r.translator != nil && len(cfg.Languages) > 0 {
		stored.Translations = r.translator.TranslateAll(ctx, pipeline.TranslatableFact{
			Title:           fact.Title,
			Content:         fact.Content,
			ContestedTheory: fact.ContestedTheory,
		}, cfg.Languages)
	}

	if r.media != nil {
		media := r.media.Find(ctx, fact)
		stored.ImageURL = media.ImageURL
		stored.VideoURL = media.VideoURL
	}

	if _, err := r.store.InsertFact(ctx, stored); err != nil {
		return fmt.Errorf("persist fact: %w", err)
	}

	now := r.now()
	cfg.LastGeneration = now
	jitterHrs := rand.Float64()*(cfg.MaxIntervalHrs-cfg.MinIntervalHrs) + cfg.MinIntervalHrs
	cfg.NextGeneration = now.Add(time.Duration(jitterHrs * float64(time.Hour)))
	if err := r.store.SaveAutoConfig(ctx, &cfg); err != nil {
		return fmt.Errorf("update auto config: %w", err)
	}
	return nil
}
