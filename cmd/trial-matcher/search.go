// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/trial-matcher/internal/match"
)

var searchCmd = &cobra.Command{
	Use:   "search [text...]",
	Short: "Search the catalog for matching trials",
	Long: `Search filters the catalog and prints the matching trials in ranked order.
Positional arguments form the free-text term, matched against title,
description, and condition tags. Every filter flag narrows the result; an
empty search lists the whole catalog by match score.

--save writes the query and its results to a YAML file; --load replays a
saved query against the current catalog. Flags given alongside --load
override the saved values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := queryFromFlags(cmd, args)
		if err != nil {
			return err
		}

		engine, err := openEngine(cmd)
		if err != nil {
			return err
		}
		results := engine.Search(q)

		if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
			if err := match.WriteQueryFile(savePath, q, results); err != nil {
				return fmt.Errorf("saving query: %w", err)
			}
			logger.Info("query saved", zap.String("path", savePath), zap.Int("results", len(results)))
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return match.FormatJSON(results, cmd.OutOrStdout())
		}
		match.FormatTable(results, cmd.OutOrStdout())
		return nil
	},
}

// queryFromFlags builds a validated query from a loaded query file (if any),
// the positional text, and the filter flags.
func queryFromFlags(cmd *cobra.Command, args []string) (match.Query, error) {
	var q match.Query
	if loadPath, _ := cmd.Flags().GetString("load"); loadPath != "" {
		qf, err := match.ReadQueryFile(loadPath)
		if err != nil {
			return q, err
		}
		if q, err = qf.Query.ToQuery(); err != nil {
			return q, fmt.Errorf("%s: %w", loadPath, err)
		}
	}

	flags := cmd.Flags()
	if len(args) > 0 {
		q.SearchText = strings.Join(args, " ")
	}
	if flags.Changed("location") {
		q.Location, _ = flags.GetString("location")
	}
	if flags.Changed("condition") {
		q.Condition, _ = flags.GetString("condition")
	}
	if flags.Changed("phase") {
		s, _ := flags.GetString("phase")
		p, err := match.ParsePhase(s)
		if err != nil {
			return q, err
		}
		q.Phase = p
	}
	if flags.Changed("status") {
		s, _ := flags.GetString("status")
		st, err := match.ParseStatus(s)
		if err != nil {
			return q, err
		}
		q.Status = st
	}
	if flags.Changed("sort") {
		s, _ := flags.GetString("sort")
		key, err := match.ParseSortKey(s)
		if err != nil {
			return q, err
		}
		q.SortKey = key
	}
	if flags.Changed("limit") {
		q.MaxResults, _ = flags.GetInt("limit")
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

func init() {
	searchCmd.Flags().String("location", "", "filter by location substring (case-insensitive)")
	searchCmd.Flags().String("condition", "", "filter by exact condition tag, e.g. asthma")
	searchCmd.Flags().String("phase", "", "filter by phase: I, II, III, IV")
	searchCmd.Flags().String("status", "", "filter by status: recruiting, enrolling, active, completed")
	searchCmd.Flags().String("sort", "match_score", "sort key: match_score, compensation, duration, participants, last_updated")
	searchCmd.Flags().Int("limit", 0, "maximum number of results (0 uses match.max_results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "save the query and results to a YAML file")
	searchCmd.Flags().String("load", "", "replay a saved query file")

	rootCmd.AddCommand(searchCmd)
}
