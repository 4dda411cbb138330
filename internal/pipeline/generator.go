// Package pipeline orchestrates fact generation, translation, and related
// media lookup against the LLM provider and the corpus store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pmorvan/factuel/internal/dedupe"
	"github.com/pmorvan/factuel/internal/keys"
	"github.com/pmorvan/factuel/internal/llm"
	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/parse"
	"github.com/pmorvan/factuel/internal/store"
	"github.com/pmorvan/factuel/internal/validate"
)

const generationSystemPrompt = `You are a scientific fact generator. Generate a fact that meets these requirements:

1. Based on peer-reviewed research with verifiable sources
2. Counter-intuitive or challenges common beliefs
3. Includes statistical evidence or measurable data
4. Must be unique and not commonly known
5. Format as valid JSON with these EXACT fields:
   {
     "title": "Brief, attention-grabbing title (max 100 characters)",
     "content": "Detailed explanation with evidence (200-400 words)",
     "source": "Academic source with year (e.g., 'University of X, 2023')",
     "category": "Scientific domain",
     "wtfScore": number between 1-10,
     "contestedTheory": "Main opposing theory or controversy"
   }

CRITICAL: Output MUST be valid JSON only, no other text.`

// Generator runs the generate → parse → validate → dedupe loop with bounded
// retries and exponential backoff.
//
// The duplicate check and the caller's eventual insert are not atomic: two
// concurrent Generate calls can both pass the check against the same
// pre-insert corpus snapshot. Callers needing the no-near-duplicates
// guarantee must serialize generation (the scheduler does).
type Generator struct {
	provider  llm.Provider
	validator *validate.Validator
	detector  *dedupe.Detector
	store     store.Store
	retry     model.RetryConfig
	llmCfg    model.LLMConfig

	// sleep is injectable so tests can assert backoff spacing without
	// waiting it out.
	sleep func(ctx context.Context, d time.Duration) error

	verbose bool
	logw    io.Writer
}

// NewGenerator wires a generator from configuration.
func NewGenerator(provider llm.Provider, s store.Store, cfg *model.Config) *Generator {
	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 3
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = time.Second
	}

	return &Generator{
		provider:  provider,
		validator: validate.New(cfg.Validate),
		detector:  dedupe.New(cfg.Dedupe),
		store:     s,
		retry:     retry,
		llmCfg:    cfg.LLM,
		sleep:     sleepCtx,
		verbose:   cfg.Verbose,
		logw:      os.Stderr,
	}
}

// SetLogWriter redirects progress and failure logging (used by tests).
func (g *Generator) SetLogWriter(w io.Writer) {
	g.logw = w
	g.validator.SetLogWriter(w)
	g.detector.SetLogWriter(w)
}

// Generate produces one validated, non-duplicate fact for the prompt.
// Attempts are strictly sequential; each one re-queries the corpus so facts
// inserted between attempts are seen. A missing API key aborts immediately;
// every other failure is retried with exponential backoff until the attempt
// budget runs out, at which point an *ExhaustedError wrapping the last
// failure is returned.
func (g *Generator) Generate(ctx context.Context, prompt string) (*model.GeneratedFact, error) {
	var lastErr error

	for attempt := 1; attempt <= g.retry.MaxAttempts; attempt++ {
		g.logf("generating fact (attempt %d/%d)", attempt, g.retry.MaxAttempts)

		fact, err := g.attempt(ctx, prompt)
		if err == nil {
			g.logf("generated unique fact: %q", fact.Title)
			return fact, nil
		}

		if errors.Is(err, keys.ErrKeyNotConfigured) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		g.logf("attempt %d failed: %v", attempt, err)
		lastErr = err

		if attempt < g.retry.MaxAttempts {
			delay := g.retry.BaseDelay << (attempt - 1)
			g.logf("retrying in %v", delay)
			if err := g.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
	}

	return nil, &ExhaustedError{Attempts: g.retry.MaxAttempts, Err: lastErr}
}

// attempt runs one full pipeline pass: complete, parse, validate, dedupe.
func (g *Generator) attempt(ctx context.Context, prompt string) (*model.GeneratedFact, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:      generationSystemPrompt,
		User:        prompt,
		MaxTokens:   g.llmCfg.MaxTokens,
		Temperature: g.llmCfg.Temperature,
		JSONObject:  true,
	})
	if err != nil {
		return nil, err
	}

	data, err := parse.Parse(resp.Content)
	if err != nil {
		return nil, err
	}

	fact, ok := g.validator.Validate(data)
	if !ok {
		return nil, ErrInvalidFact
	}

	corpus, err := g.store.ListFacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("query corpus: %w", err)
	}
	if g.detector.IsDuplicate(fact, corpus) {
		return nil, ErrDuplicate
	}

	return fact, nil
}

func (g *Generator) logf(format string, args ...any) {
	if g.verbose {
		fmt.Fprintf(g.logw, format+"\n", args...)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
