package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/pipeline"
	"github.com/pmorvan/factuel/internal/scheduler"
)

var (
	autoOnce     bool
	autoInterval time.Duration

	addCategory    string
	addLangs       []string
	addMinInterval float64
	addMaxInterval float64
	addEnabled     bool
	addApprove     bool
)

// autoCmd represents the auto command group
var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Scheduled fact generation",
}

// autoRunCmd runs the scheduler
var autoRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run scheduled generation for every due category config",
	Long: `Run processes each enabled auto-generation config whose minimum
interval has elapsed: it generates one fact for the category, translates it
into the config's languages, and persists it pending or approved per the
config.

Example:
  factuel auto run --once
  factuel auto run --interval 1h`,
	RunE: runAuto,
}

// autoAddCmd creates or updates a category config
var autoAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an auto-generation config for a category",
	Long: `Example:
  factuel auto add --category "Biologie Interdite" --langs en,es --min 1 --max 4 --enable`,
	RunE: runAutoAdd,
}

// autoListCmd lists configs
var autoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List auto-generation configs",
	RunE:  runAutoList,
}

func init() {
	rootCmd.AddCommand(autoCmd)
	autoCmd.AddCommand(autoRunCmd, autoAddCmd, autoListCmd)

	autoRunCmd.Flags().BoolVar(&autoOnce, "once", false, "process due configs once and exit")
	autoRunCmd.Flags().DurationVar(&autoInterval, "interval", time.Hour, "loop interval")

	autoAddCmd.Flags().StringVar(&addCategory, "category", "", "category to generate facts for")
	autoAddCmd.Flags().StringSliceVar(&addLangs, "langs", []string{"en", "zh", "ar", "es"}, "translation targets")
	autoAddCmd.Flags().Float64Var(&addMinInterval, "min", 1, "minimum hours between generations")
	autoAddCmd.Flags().Float64Var(&addMaxInterval, "max", 4, "maximum hours before next generation")
	autoAddCmd.Flags().BoolVar(&addEnabled, "enable", false, "enable the config")
	autoAddCmd.Flags().BoolVar(&addApprove, "auto-approve", false, "persist generated facts as approved")
	_ = autoAddCmd.MarkFlagRequired("category")
}

func runAuto(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	translator := pipeline.NewTranslator(provider)
	var media scheduler.MediaLookup
	if cfg.Media.Enabled {
		media = pipeline.NewMediaFinder(resolver, limiter, cfg.Media)
	}

	runner := scheduler.New(generator, translator, media, s, cfg.Scheduler.Concurrency)

	if autoOnce {
		n, err := runner.RunOnce(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Generated %d fact(s)\n", n)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Running scheduler every %v (ctrl-c to stop)\n", autoInterval)
	if err := runner.Run(ctx, autoInterval); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runAutoAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	langs, err := parseLangs(addLangs)
	if err != nil {
		return err
	}
	if addMaxInterval < addMinInterval {
		return fmt.Errorf("--max must be >= --min")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	auto := &model.AutoConfig{
		Category:       addCategory,
		Languages:      langs,
		Enabled:        addEnabled,
		AutoApprove:    addApprove,
		MinIntervalHrs: addMinInterval,
		MaxIntervalHrs: addMaxInterval,
	}
	if err := s.SaveAutoConfig(ctx, auto); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved auto config %s for %q\n", auto.ID, auto.Category)
	return nil
}

func runAutoList(cmd *cobra.Command, args []string) error {
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

	configs, err := s.ListAutoConfigs(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tENABLED\tAPPROVE\tLANGS\tLAST\tNEXT")
	for _, c := range configs {
		last := "-"
		if !c.LastGeneration.IsZero() {
			last = c.LastGeneration.Format(time.RFC3339)
		}
		next := "-"
		if !c.NextGeneration.IsZero() {
			next = c.NextGeneration.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%v\t%s\t%s\n",
			c.ID, c.Category, c.Enabled, c.AutoApprove, c.Languages, last, next)
	}
	return w.Flush()
}
