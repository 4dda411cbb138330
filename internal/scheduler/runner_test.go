package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/pipeline"
	"github.com/pmorvan/factuel/internal/store"
)

type stubGenerator struct {
	calls int64
	err   error
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (*model.GeneratedFact, error) {
	n := atomic.AddInt64(&g.calls, 1)
	if g.err != nil {
		return nil, g.err
	}
	return &model.GeneratedFact{
		Title:           prompt + " #" + time.Now().Format("150405.000000000") + string(rune('a'+n)),
		Content:         "Generated content for " + prompt,
		Source:          "Uni X, 2020",
		Category:        "auto",
		WtfScore:        7,
		ContestedTheory: "Disputed",
	}, nil
}

type stubTranslator struct{}

func (stubTranslator) TranslateAll(_ context.Context, fact pipeline.TranslatableFact, langs []model.Language) map[model.Language]model.Translation {
	out := make(map[model.Language]model.Translation)
	for _, lang := range langs {
		if lang == model.LangFrench {
			continue
		}
		out[lang] = model.Translation{Title: "t:" + fact.Title, Content: "t:" + fact.Content, ContestedTheory: "t:" + fact.ContestedTheory}
	}
	return out
}

func seedConfig(t *testing.T, s store.Store, category string, enabled, autoApprove bool, lastGen time.Time) {
	t.Helper()
	cfg := &model.AutoConfig{
		Category:       category,
		Languages:      []model.Language{model.LangEnglish, model.LangSpanish},
		Enabled:        enabled,
		AutoApprove:    autoApprove,
		MinIntervalHrs: 1,
		MaxIntervalHrs: 4,
		LastGeneration: lastGen,
	}
	if err := s.SaveAutoConfig(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
}

func TestRunOnce_GeneratesDueConfigs(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	longAgo := time.Now().Add(-24 * time.Hour)
	seedConfig(t, s, "Biologie Interdite", true, true, longAgo)
	seedConfig(t, s, "Astronomie", true, false, longAgo)
	seedConfig(t, s, "Disabled", false, false, longAgo)
	seedConfig(t, s, "Recent", true, false, time.Now())

	gen := &stubGenerator{}
	r := New(gen, stubTranslator{}, nil, s, 1)
	r.SetLogWriter(io.Discard)

	n, err := r.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 generated facts, got %d", n)
	}

	facts, _ := s.ListFacts(ctx)
	if len(facts) != 2 {
		t.Fatalf("expected 2 persisted facts, got %d", len(facts))
	}

	var approved, pending int
	for _, f := range facts {
		switch f.Status {
		case model.StatusApproved:
			approved++
			if f.ApprovedAt == nil {
				t.Error("approved fact missing ApprovedAt")
			}
		case model.StatusPending:
			pending++
		}
		if len(f.Translations) != 2 {
			t.Errorf("expected en+es translations, got %v", f.Translations)
		}
	}
	if approved != 1 || pending != 1 {
		t.Errorf("expected 1 approved and 1 pending, got %d/%d", approved, pending)
	}

	// Due configs get their schedule advanced.
	configs, _ := s.ListAutoConfigs(ctx)
	for _, cfg := range configs {
		if cfg.Category == "Biologie Interdite" || cfg.Category == "Astronomie" {
			if time.Since(cfg.LastGeneration) > time.Minute {
				t.Errorf("config %q lastGeneration not updated", cfg.Category)
			}
			next := cfg.NextGeneration.Sub(cfg.LastGeneration).Hours()
			if next < 1 || next > 4 {
				t.Errorf("config %q nextGeneration jitter out of [1,4]h: %v", cfg.Category, next)
			}
		}
	}
}

func TestRunOnce_NothingDue(t *testing.T) {
	s := store.NewMemoryStore()
	seedConfig(t, s, "Recent", true, false, time.Now())

	gen := &stubGenerator{}
	r := New(gen, stubTranslator{}, nil, s, 1)
	r.SetLogWriter(io.Discard)

	n, err := r.RunOnce(context.Background())
	if err != nil || n != 0 {
		t.Errorf("RunOnce = (%d, %v), want (0, nil)", n, err)
	}
	if atomic.LoadInt64(&gen.calls) != 0 {
		t.Error("generator must not be called when nothing is due")
	}
}

func TestRunOnce_GenerationFailureSkipsConfig(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	seedConfig(t, s, "Failing", true, false, time.Now().Add(-24*time.Hour))

	gen := &stubGenerator{err: errors.New("provider down")}
	r := New(gen, stubTranslator{}, nil, s, 1)
	r.SetLogWriter(io.Discard)

	n, err := r.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce must not fail on per-config errors: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 generated, got %d", n)
	}
	facts, _ := s.ListFacts(ctx)
	if len(facts) != 0 {
		t.Errorf("no facts should be persisted on failure, got %d", len(facts))
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := store.NewMemoryStore()
	r := New(&stubGenerator{}, stubTranslator{}, nil, s, 1)
	r.SetLogWriter(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, 10*time.Millisecond) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
