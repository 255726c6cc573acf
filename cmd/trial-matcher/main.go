// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trial-matcher CLI.
// Commands: search and show query the catalog through the matching engine;
// catalog validates and exports catalog sources; version prints the build.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/trial-matcher/internal/catalog"
	"github.com/pdiddy/trial-matcher/internal/config"
	"github.com/pdiddy/trial-matcher/internal/logging"
	"github.com/pdiddy/trial-matcher/internal/match"
	"github.com/pdiddy/trial-matcher/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, set before any subcommand runs.
	cfg types.Config

	logger = zap.NewNop()
)

// rootCmd is the base command for the trial-matcher CLI.
var rootCmd = &cobra.Command{
	Use:   "trial-matcher",
	Short: "Search and rank clinical trial listings",
	Long: `trial-matcher browses a catalog of clinical trial listings. It filters the
catalog by free text, location, condition, phase, and status, ranks the
matches by score or another sort key, and prints them as a table or JSON.

The catalog is the embedded default unless --catalog (or catalog.path in the
config file) names a YAML, JSON, or SQLite catalog.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		c, used, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("catalog") {
			c.Catalog.Path, _ = cmd.Flags().GetString("catalog")
		}
		if cmd.Flags().Changed("log-level") {
			c.Log.Level, _ = cmd.Flags().GetString("log-level")
		}

		l, err := logging.New(c.Log.Level, c.Log.Format)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		if used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./trial-matcher.yaml or ~/.config/trial-matcher/trial-matcher.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog file (.yaml, .json) or SQLite database (.db); default is the embedded catalog")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

// openEngine loads the configured catalog and returns an engine over it.
func openEngine(cmd *cobra.Command) (*match.Engine, error) {
	store, err := catalog.Open(cmd.Context(), cfg.Catalog.Path, logger)
	if err != nil {
		return nil, err
	}
	return match.NewEngine(store, cfg.Match, logger), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
