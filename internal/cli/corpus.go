package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pmorvan/factuel/internal/store"
)

// corpusCmd represents the corpus command group
var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect and manage the stored fact corpus",
}

// corpusListCmd lists stored facts
var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored facts",
	RunE:  runCorpusList,
}

// corpusExportCmd exports the corpus as YAML
var corpusExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the corpus as YAML (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCorpusExport,
}

// corpusImportCmd imports a YAML corpus
var corpusImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import facts from a YAML export",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpusImport,
}

// corpusSetKeyCmd stores a provider API key
var corpusSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider> <key>",
	Short: "Store an API key (deepseek, openai, google-images, youtube)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCorpusSetKey,
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusListCmd, corpusExportCmd, corpusImportCmd, corpusSetKeyCmd)
}

func withStore(fn func(ctx context.Context, s store.Store) error) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return fn(ctx, s)
}

func runCorpusList(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, s store.Store) error {
		facts, err := s.ListFacts(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tWTF\tCATEGORY\tTITLE")
		for _, f := range facts {
			fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\t%s\n", f.ID, f.Status, f.WtfScore, f.Category, f.Title)
		}
		return w.Flush()
	})
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, s store.Store) error {
		out := os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			out = f
		}
		return store.ExportYAML(ctx, s, out)
	})
}

func runCorpusImport(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, s store.Store) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		n, err := store.ImportYAML(ctx, s, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Imported %d fact(s)\n", n)
		return nil
	})
}

func runCorpusSetKey(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, s store.Store) error {
		if err := s.SetAPIKey(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Stored API key for %s\n", args[0])
		return nil
	})
}
