// Package cli implements the factuel command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pmorvan/factuel/internal/keys"
	"github.com/pmorvan/factuel/internal/llm"
	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/store"
	"github.com/pmorvan/factuel/internal/worker"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "factuel",
	Short: "Factuel - AI fact generation, deduplication, and translation",
	Long: `Factuel generates counter-intuitive scientific facts with a generative
text API, validates and deduplicates them against the stored corpus, and
translates them into the application's target languages.

Facts are persisted with a moderation status; approval remains a human
decision in the surrounding application.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("factuel v0.3.2")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.factuel/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".factuel"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.SetDefault("store.path", filepath.Join(home, ".factuel", "factuel.db"))
	}

	viper.SetEnvPrefix("FACTUEL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, config file, and environment into one Config.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Verbose = cfg.Verbose || verbose
	return cfg, nil
}

// openStore opens the configured store, creating its directory if needed.
func openStore(ctx context.Context, cfg *model.Config) (store.Store, error) {
	if cfg.Store.Path == "" {
		return store.NewMemoryStore(), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return store.OpenSQLite(ctx, cfg.Store.Path)
}

// buildProvider wires the key resolver, rate limiter, and LLM provider.
func buildProvider(cfg *model.Config, s store.Store) (llm.Provider, *keys.Resolver, *worker.Limiter, error) {
	resolver := keys.NewResolver(s, cfg.Store.KeyCacheTTL)
	limiter := worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)
	provider, err := llm.New(cfg.LLM, resolver, limiter)
	if err != nil {
		return nil, nil, nil, err
	}
	return provider, resolver, limiter, nil
}
