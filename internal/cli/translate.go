package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/pipeline"
)

var (
	trLang    string
	trTitle   string
	trContent string
	trTheory  string
	trTimeout time.Duration
)

// translateCmd represents the translate command
var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate a text or a whole fact into a target language",
	Long: `Translate renders text into the target language through the LLM
provider. With --title/--content/--theory it translates all three fact
fields concurrently and fails atomically: no partial fact translation is
ever produced.

Example:
  factuel translate --lang en "Les fourmis prédisent l'activité sismique"
  factuel translate --lang es --title "..." --content "..." --theory "..."`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVar(&trLang, "lang", "", "target language (en, zh, ar, es)")
	translateCmd.Flags().StringVar(&trTitle, "title", "", "fact title to translate")
	translateCmd.Flags().StringVar(&trContent, "content", "", "fact content to translate")
	translateCmd.Flags().StringVar(&trTheory, "theory", "", "fact contested theory to translate")
	translateCmd.Flags().DurationVar(&trTimeout, "timeout", 2*time.Minute, "translation timeout")
	_ = translateCmd.MarkFlagRequired("lang")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	lang, ok := model.ParseLanguage(trLang)
	if !ok {
		return fmt.Errorf("unknown language %q (supported: fr, en, zh, ar, es)", trLang)
	}

	factMode := trTitle != "" || trContent != "" || trTheory != ""
	if factMode && len(args) > 0 {
		return fmt.Errorf("pass either positional text or --title/--content/--theory, not both")
	}
	if !factMode && len(args) == 0 {
		return fmt.Errorf("nothing to translate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), trTimeout)
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

	provider, _, _, err := buildProvider(cfg, s)
	if err != nil {
		return err
	}
	translator := pipeline.NewTranslator(provider)

	if !factMode {
		out, err := translator.TranslateText(ctx, args[0], lang)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	translation, err := translator.TranslateFact(ctx, pipeline.TranslatableFact{
		Title:           trTitle,
		Content:         trContent,
		ContestedTheory: trTheory,
	}, lang)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(translation)
}
