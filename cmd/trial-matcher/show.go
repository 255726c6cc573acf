// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trial-matcher/internal/match"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show every field of one trial",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(cmd)
		if err != nil {
			return err
		}
		t, err := engine.GetByID(args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(t)
		}
		match.FormatDetail(t, cmd.OutOrStdout())
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "output the trial as JSON")

	rootCmd.AddCommand(showCmd)
}
