package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agenthands/ledger/internal/config"
	"github.com/agenthands/ledger/internal/core"
	"github.com/agenthands/ledger/internal/ingest"
	"github.com/agenthands/ledger/internal/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Resolve developer and investor entities and build their relationship graph",
	Long: `ledger deduplicates project developers and investors described across
cleaned tables, emails and meeting transcripts, and derives the relationships
between them.

Examples:
  ledger run                         # write JSON (and SQLite) outputs
  ledger serve                       # run the pipeline and serve the query API
  ledger export-graph                # mirror the result into Memgraph
  ledger run --config prod.toml --log-level debug
`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", envOr("CONFIG_PATH", "config/config.toml"), "path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(runCmd, serveCmd, exportGraphCmd)
}

// app carries what every subcommand needs once configuration is resolved.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	closer io.Closer
}

func (a *app) Close() error {
	return a.closer.Close()
}

// setup loads the config file (defaults when it does not exist), applies
// environment and flag overrides and builds the logger.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, closer: closer}, nil
}

func (a *app) pipeline(ctx context.Context) (*core.Result, error) {
	snap, err := ingest.Load(a.cfg.Input, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load input: %w", err)
	}
	return core.NewResolver(a.cfg, a.logger).Run(ctx, snap)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
