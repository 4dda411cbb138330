package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/pipeline"
)

var (
	genLangs   []string
	genMedia   bool
	genInsert  bool
	genApprove bool
	genTimeout time.Duration
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate one validated, non-duplicate fact",
	Long: `Generate calls the configured LLM provider with the given prompt,
extracts and validates the JSON fact, and checks it against the stored
corpus for near-duplicates. Failures are retried with exponential backoff.

Example:
  factuel generate "Generate a scientific fact in the category: Biologie Interdite"
  factuel generate "..." --langs en,es --insert
  factuel generate "..." --langs en,zh,ar,es --media --insert --approve`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringSliceVar(&genLangs, "langs", nil, "target languages to translate into (fr is the source)")
	generateCmd.Flags().BoolVar(&genMedia, "media", false, "look up related image/video")
	generateCmd.Flags().BoolVar(&genInsert, "insert", false, "persist the fact to the corpus")
	generateCmd.Flags().BoolVar(&genApprove, "approve", false, "persist with approved status (requires --insert)")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 3*time.Minute, "overall generation timeout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	provider, resolver, limiter, err := buildProvider(cfg, s)
	if err != nil {
		return err
	}

	generator := pipeline.NewGenerator(provider, s, cfg)
	fact, err := generator.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	langs, err := parseLangs(genLangs)
	if err != nil {
		return err
	}

	stored := &model.StoredFact{GeneratedFact: *fact}
	if len(langs) > 0 {
		translator := pipeline.NewTranslator(provider)
		stored.Translations = translator.TranslateAll(ctx, pipeline.TranslatableFact{
			Title:           fact.Title,
			Content:         fact.Content,
			ContestedTheory: fact.ContestedTheory,
		}, langs)
		for _, lang := range langs {
			if lang == model.LangFrench {
				continue
			}
			if _, ok := stored.Translations[lang]; !ok {
				fmt.Fprintf(os.Stderr, "Warning: translation to %s failed\n", lang)
			}
		}
	}

	if genMedia {
		finder := pipeline.NewMediaFinder(resolver, limiter, cfg.Media)
		media := finder.Find(ctx, fact)
		stored.ImageURL = media.ImageURL
		stored.VideoURL = media.VideoURL
	}

	if genInsert {
		if genApprove {
			stored.Status = model.StatusApproved
			now := time.Now().UTC()
			stored.ApprovedAt = &now
		}
		id, err := s.InsertFact(ctx, stored)
		if err != nil {
			return fmt.Errorf("persist fact: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Inserted fact %s\n", id)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stored)
}

func parseLangs(codes []string) ([]model.Language, error) {
	var langs []model.Language
	for _, code := range codes {
		lang, ok := model.ParseLanguage(strings.TrimSpace(code))
		if !ok {
			return nil, fmt.Errorf("unknown language %q (supported: fr, en, zh, ar, es)", code)
		}
		langs = append(langs, lang)
	}
	return langs, nil
}
