package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"contractfix/internal/config"
	"contractfix/internal/contract"
	"contractfix/internal/fixer"
	"contractfix/internal/logging"
	"contractfix/internal/rules"
	"contractfix/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "contractfix",
		Short:         "Find and fix Code Contracts usage in C# projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger

			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("db") {
				cfg.Storage.Path = a.dbPath
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&a.dbPath, "db", "d", "", "Path to the findings database (SQLite); overrides the config")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(a.scanCmd(), a.fixCmd(), a.watchCmd(), a.findingsCmd(), a.rulesCmd())
	return rootCmd
}

// openStore opens the configured database. An empty path disables persistence.
func (a *app) openStore() (storage.Store, error) {
	if a.cfg.Storage.Path == "" {
		return nil, nil
	}
	store, err := storage.NewSQLiteStore(a.cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

// fixerOptions turns the configuration into analyzer options. only, when non-empty,
// replaces the configured rule selection.
func (a *app) fixerOptions(only []string) (fixer.Options, error) {
	cfg := a.cfg
	opts := fixer.DefaultOptions()
	opts.Dialect = contract.Dialect{
		Legacy:      cfg.Contracts.LegacyClass,
		Debug:       cfg.Contracts.DebugClass,
		Replacement: cfg.Contracts.ReplacementClass,
	}
	opts.ReplacementNamespace = cfg.Contracts.ReplacementNamespace
	opts.TransitiveOverrides = cfg.Pull.TransitiveOverrides

	var err error
	if opts.SourceKinds, err = contract.ParseExtractKinds(cfg.Pull.SourceKinds); err != nil {
		return opts, fmt.Errorf("pull.source_kinds: %w", err)
	}
	if opts.PresentKinds, err = contract.ParseExtractKinds(cfg.Pull.PresentKinds); err != nil {
		return opts, fmt.Errorf("pull.present_kinds: %w", err)
	}

	disabled := cfg.Rules.Disabled
	if len(only) > 0 {
		disabled = nil
	} else {
		only = cfg.Rules.Only
	}
	if opts.Rules, err = rules.Enabled(disabled, only); err != nil {
		return opts, err
	}
	return opts, nil
}
