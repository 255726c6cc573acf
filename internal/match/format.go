// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

// FormatTable writes results as a ranked, human-readable table to w.
func FormatTable(results []MatchResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching trials.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-40s  %-5s  %-10s  %-8s  %-9s  %-10s  %s\n",
		"Rank", "ID", "Title", "Score", "Pay", "Weeks", "Phase", "Status", "Location")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range results {
		t := r.Trial
		fmt.Fprintf(w, "%-4d  %-10s  %-40s  %-5d  %-10s  %-8d  %-9s  %-10s  %s\n",
			i+1, truncate(t.ID, 10), truncate(t.Title, 40), r.EffectiveScore,
			types.FormatCents(t.CompensationCents), t.DurationWeeks,
			t.Phase, t.Status, truncate(t.Location, 24))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes results as indented JSON to w. An empty result set is
// written as [].
func FormatJSON(results []MatchResult, w io.Writer) error {
	if results == nil {
		results = []MatchResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// FormatDetail writes every field of a trial to w, one per line.
func FormatDetail(t types.TrialRecord, w io.Writer) {
	fmt.Fprintf(w, "%s  %s\n", t.ID, t.Title)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if t.Description != "" {
		fmt.Fprintf(w, "%s\n\n", t.Description)
	}
	fmt.Fprintf(w, "Conditions:    %s\n", strings.Join(t.Conditions, ", "))
	fmt.Fprintf(w, "Location:      %s\n", t.Location)
	fmt.Fprintf(w, "Sponsor:       %s\n", t.Sponsor)
	fmt.Fprintf(w, "Phase:         %s\n", t.Phase)
	fmt.Fprintf(w, "Status:        %s\n", t.Status)
	fmt.Fprintf(w, "Risk:          %s\n", t.RiskLevel)
	fmt.Fprintf(w, "Compensation:  %s\n", types.FormatCents(t.CompensationCents))
	fmt.Fprintf(w, "Duration:      %s\n", types.FormatWeeks(t.DurationWeeks))
	fmt.Fprintf(w, "Participants:  %d\n", t.Participants)
	fmt.Fprintf(w, "Last updated:  %s\n", t.LastUpdated.Format(types.DateFormat))
	fmt.Fprintf(w, "Match score:   %d\n", t.BaseMatchScore)
	if len(t.Requirements) > 0 {
		fmt.Fprintln(w, "Requirements:")
		for _, req := range t.Requirements {
			fmt.Fprintf(w, "  - %s\n", req)
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
