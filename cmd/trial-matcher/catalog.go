// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/trial-matcher/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and export trial catalogs",
	Long: `Catalog inspects the configured catalog source. validate loads the catalog
and reports every malformed record; export writes the catalog as YAML, JSON,
or a SQLite database that --catalog can load again.`,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the catalog and report malformed records",
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.Catalog.Path
		if source == "" {
			source = "embedded catalog"
		}

		store, err := catalog.Open(cmd.Context(), cfg.Catalog.Path, logger)
		if err != nil {
			malformed := catalog.MalformedRecords(err)
			for _, m := range malformed {
				fmt.Fprintf(cmd.OutOrStdout(), "  %v\n", m)
			}
			if len(malformed) > 0 {
				return fmt.Errorf("%s: %d malformed records", source, len(malformed))
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d trials OK\n", source, store.Len())
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as YAML, JSON, or SQLite",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		format = strings.ToLower(format)

		store, err := catalog.Open(cmd.Context(), cfg.Catalog.Path, logger)
		if err != nil {
			return err
		}

		switch format {
		case "sqlite":
			if out == "" {
				return fmt.Errorf("--out is required for sqlite export")
			}
			if err := catalog.ExportSQLite(cmd.Context(), store, out); err != nil {
				return err
			}
		case "yaml", "json":
			if err := writeExport(cmd, store, format, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported export format %q: use yaml, json, or sqlite", format)
		}

		if out != "" {
			logger.Info("catalog exported",
				zap.String("format", format),
				zap.String("path", out),
				zap.Int("trials", store.Len()))
		}
		return nil
	},
}

// writeExport writes a YAML or JSON export to out, or to stdout when out is
// empty.
func writeExport(cmd *cobra.Command, store *catalog.Store, format, out string) error {
	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if format == "json" {
		return catalog.ExportJSON(store, w)
	}
	return catalog.ExportYAML(store, w)
}

func init() {
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml, json, sqlite")
	catalogExportCmd.Flags().String("out", "", "output path (default: stdout for yaml and json)")

	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
