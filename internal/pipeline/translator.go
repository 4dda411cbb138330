package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pmorvan/factuel/internal/llm"
	"github.com/pmorvan/factuel/internal/model"
)

// TranslatableFact carries the three fields rendered per language.
type TranslatableFact struct {
	Title           string
	Content         string
	ContestedTheory string
}

// Translator renders facts into target languages through the LLM provider.
type Translator struct {
	provider llm.Provider
}

// NewTranslator creates a translator on the given provider.
func NewTranslator(provider llm.Provider) *Translator {
	return &Translator{provider: provider}
}

// TranslateText translates a single text into the target language.
func (t *Translator) TranslateText(ctx context.Context, text string, lang model.Language) (string, error) {
	resp, err := t.provider.Complete(ctx, llm.CompletionRequest{
		System: fmt.Sprintf("You are a professional translator. Translate the following text to %s. Keep scientific terms accurate.", lang),
		User:   text,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// TranslateFact translates the three fact fields concurrently and joins the
// results. A translation is atomic per language: if any field fails, the
// whole call fails and no partial record is returned.
func (t *Translator) TranslateFact(ctx context.Context, fact TranslatableFact, lang model.Language) (*model.Translation, error) {
	fields := []string{fact.Title, fact.Content, fact.ContestedTheory}
	results := make([]string, len(fields))
	errs := make([]error, len(fields))

	var wg sync.WaitGroup
	for i, text := range fields {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			results[i], errs[i] = t.TranslateText(ctx, text, lang)
		}(i, text)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("translate fact to %s: %w", lang, err)
		}
	}

	return &model.Translation{
		Title:           results[0],
		Content:         results[1],
		ContestedTheory: results[2],
	}, nil
}

// TranslateAll translates a fact into every target language, skipping the
// canonical source language. Failed languages are dropped rather than
// failing the whole batch; the returned map is sparse.
func (t *Translator) TranslateAll(ctx context.Context, fact TranslatableFact, langs []model.Language) map[model.Language]model.Translation {
	translations := make(map[model.Language]model.Translation)
	for _, lang := range langs {
		if lang == model.LangFrench {
			continue
		}
		tr, err := t.TranslateFact(ctx, fact, lang)
		if err != nil {
			continue
		}
		translations[lang] = *tr
	}
	return translations
}
