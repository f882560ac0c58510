package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"rpytl/internal/config"
	"rpytl/internal/events"
	"rpytl/internal/extract"
	"rpytl/internal/rules"
	"rpytl/internal/validate"
	"rpytl/internal/worker"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "rpytl",
		Short: "Translation string extractor for Ren'Py games",
		Long: "Extracts translatable strings from Ren'Py game scripts and JSON data files\n" +
			"and generates translate-block stub files for a target locale.",
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "rpytl.json", "Path to the configuration file")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(initCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <game-dir>",
		Short: "Extract translatable strings and generate stub files",
		Long: "Scans <game-dir>/game for matching files, extracts string candidates with the\n" +
			"enabled rules, filters them through the validator chain, and writes translation\n" +
			"stub files under the translation directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0])
		},
	}

	cmd.Flags().String("locale", "", "Target locale for the translate block header")
	cmd.Flags().String("out", "", "Translation output directory, relative to the game dir")
	cmd.Flags().String("mode", "", "Write mode: append or overwrite")
	cmd.Flags().String("format", "", "Output format: renpy, json or csv")
	cmd.Flags().String("encoding", "", "Text encoding for reading and writing files")
	cmd.Flags().StringSlice("patterns", nil, "Glob patterns for source files")
	cmd.Flags().Bool("recursive", true, "Search subdirectories")
	cmd.Flags().Bool("skip-translated", true, "Skip entries already present in the destination")
	cmd.Flags().StringSlice("rules", nil, "Extractor rules to run (default: all registered)")
	cmd.Flags().StringSlice("validators", nil, "Validators to apply, in order")
	cmd.Flags().Bool("names-writer", false, "Route person name parts to the compound names file")
	cmd.Flags().String("rules-dir", "", "Directory holding the rule table files")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available extractor rules and validators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration and rule table files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd)
		},
	}
}

// runExtract handles the `extract` command.
func runExtract(cmd *cobra.Command, gameDir string) error {
	ctx, cancel := setupContext()
	defer cancel()
	applyVerbosity(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.GameDir = gameDir
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	bus := events.NewBus(log.Logger)
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		attachProgress(bus, os.Stderr)
	}

	runner := worker.NewRunner[int](log.Logger)
	res := <-runner.Go(ctx, extract.New(cfg, log.Logger, bus).Run)
	if res.Err != nil {
		return res.Err
	}

	log.Info().Int("entries", res.Value).Str("output", cfg.TranslationRoot()).Msg("Extraction complete")
	return nil
}

// runList handles the `list` command.
func runList(cmd *cobra.Command) error {
	applyVerbosity(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tables, err := config.LoadRuleTables(cfg.RulesDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.RulesDir).Msg("Using built-in rule tables")
		tables = config.DefaultTables()
	}
	registry := rules.FromTables(log.Logger, tables)
	chain := validate.NewChain(log.Logger)

	out := cmd.OutOrStdout()

	ruleEnabled := selectionSet(cfg.Extractors, registry.Names())
	for _, kind := range []rules.Kind{rules.KindScript, rules.KindJSON} {
		fmt.Fprintf(out, "Extractor rules (%s):\n", kind)
		for _, name := range registry.Names() {
			r, ok := registry.Get(name)
			if !ok || r.Kind() != kind {
				continue
			}
			fmt.Fprintf(out, "  [%s] %s\n", mark(ruleEnabled[name]), name)
		}
		fmt.Fprintln(out)
	}

	validatorEnabled := selectionSet(cfg.Validators, nil)
	fmt.Fprintln(out, "Validators:")
	for _, name := range chain.Names() {
		fmt.Fprintf(out, "  [%s] %s\n", mark(validatorEnabled[name]), name)
	}
	return nil
}

// runInit handles the `init` command.
func runInit(cmd *cobra.Command) error {
	applyVerbosity(cmd)

	cfgPath, _ := cmd.Flags().GetString("config")
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("config file already exists: %s", cfgPath)
	}

	cfg := config.Default()
	if err := cfg.Save(cfgPath); err != nil {
		return err
	}
	if err := config.SaveDefaultTables(cfg.RulesDir); err != nil {
		return err
	}

	log.Info().Str("config", cfgPath).Str("rules", cfg.RulesDir).Msg("Wrote default configuration")
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	return config.Load(cfgPath)
}

func applyVerbosity(cmd *cobra.Command) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	if lvl, err := zerolog.ParseLevel(os.Getenv("RPYTL_LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// applyFlags overrides config fields with explicitly set command flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("locale") {
		cfg.Locale, _ = f.GetString("locale")
	}
	if f.Changed("out") {
		cfg.TranslationDir, _ = f.GetString("out")
	}
	if f.Changed("mode") {
		cfg.WriteMode, _ = f.GetString("mode")
	}
	if f.Changed("format") {
		cfg.WriterFormat, _ = f.GetString("format")
	}
	if f.Changed("encoding") {
		cfg.Encoding, _ = f.GetString("encoding")
	}
	if f.Changed("patterns") {
		cfg.FilePatterns, _ = f.GetStringSlice("patterns")
	}
	if f.Changed("recursive") {
		cfg.Recursive, _ = f.GetBool("recursive")
	}
	if f.Changed("skip-translated") {
		cfg.SkipTranslated, _ = f.GetBool("skip-translated")
	}
	if f.Changed("rules") {
		cfg.Extractors, _ = f.GetStringSlice("rules")
	}
	if f.Changed("validators") {
		cfg.Validators, _ = f.GetStringSlice("validators")
	}
	if f.Changed("names-writer") {
		cfg.PersonNameWriter, _ = f.GetBool("names-writer")
	}
	if f.Changed("rules-dir") {
		cfg.RulesDir, _ = f.GetString("rules-dir")
	}
}

// attachProgress renders extraction progress on w from bus events. The
// handlers run on the pipeline goroutine, so the bar is touched from
// one goroutine only.
func attachProgress(bus *events.Bus, w io.Writer) {
	var bar *progressbar.ProgressBar
	bus.Subscribe(events.ExtractionProgress, func(e events.Event) {
		if bar == nil {
			bar = progressbar.NewOptions(e.Total,
				progressbar.OptionSetDescription("extracting"),
				progressbar.OptionSetWriter(w),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(e.Current)
	})
	bus.Subscribe(events.ExtractionCompleted, func(e events.Event) {
		if bar != nil {
			_ = bar.Finish()
		}
	})
}

// selectionSet maps enabled names; an empty selection enables all.
func selectionSet(selected, all []string) map[string]bool {
	m := map[string]bool{}
	if len(selected) == 0 {
		for _, name := range all {
			m[name] = true
		}
		return m
	}
	for _, name := range selected {
		m[name] = true
	}
	return m
}

func mark(enabled bool) string {
	if enabled {
		return "*"
	}
	return " "
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, finishing current file...")
		cancel()
	}()

	return ctx, cancel
}
