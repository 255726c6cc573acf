// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

// SortKey selects the order of search results. The direction is fixed per
// key; ties always fall back to ascending trial ID.
type SortKey string

const (
	// SortMatchScore orders by descending effective score.
	SortMatchScore SortKey = "match_score"
	// SortCompensation orders by descending compensation.
	SortCompensation SortKey = "compensation"
	// SortDuration orders by ascending duration.
	SortDuration SortKey = "duration"
	// SortParticipants orders by descending participant count.
	SortParticipants SortKey = "participants"
	// SortLastUpdated orders most recently updated first.
	SortLastUpdated SortKey = "last_updated"
)

// SortKeys lists every supported sort key.
var SortKeys = []SortKey{SortMatchScore, SortCompensation, SortDuration, SortParticipants, SortLastUpdated}

// ParseSortKey accepts a sort key in snake or kebab case. Empty selects
// SortMatchScore.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if s == "" || s == "score" {
		return SortMatchScore, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q: use one of %s", s, joinKeys())
}

func joinKeys() string {
	names := make([]string, len(SortKeys))
	for i, k := range SortKeys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Query is one search request. Empty fields do not filter.
type Query struct {
	// SearchText matches title, description, or any condition tag,
	// ignoring case.
	SearchText string `json:"search_text,omitempty" yaml:"search_text,omitempty"`

	// Location matches a substring of the trial location, ignoring case.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Condition must equal one of the trial's condition tags exactly.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`

	Phase  types.Phase       `json:"phase,omitempty" yaml:"phase,omitempty"`
	Status types.TrialStatus `json:"status,omitempty" yaml:"status,omitempty"`

	// SortKey defaults to SortMatchScore.
	SortKey SortKey `json:"sort_key,omitempty" yaml:"sort_key,omitempty"`

	// MaxResults truncates the sorted output. Zero uses the engine default.
	MaxResults int `json:"max_results,omitempty" yaml:"max_results,omitempty"`
}

// IsEmpty reports whether the query sets no filter.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.SearchText) == "" &&
		strings.TrimSpace(q.Location) == "" &&
		q.Condition == "" && q.Phase == "" && q.Status == ""
}

// Validate rejects enum values the catalog can never contain and sort keys
// that are not spelled exactly as in SortKeys. The engine itself accepts any
// query; Validate is for input boundaries.
func (q Query) Validate() error {
	if q.Phase != "" && !q.Phase.Valid() {
		return fmt.Errorf("unknown phase %q", q.Phase)
	}
	if q.Status != "" && !q.Status.Valid() {
		return fmt.Errorf("unknown status %q", q.Status)
	}
	if q.SortKey != "" && !slices.Contains(SortKeys, q.SortKey) {
		return fmt.Errorf("unknown sort key %q: use one of %s", q.SortKey, joinKeys())
	}
	if q.MaxResults < 0 {
		return fmt.Errorf("max results must not be negative, got %d", q.MaxResults)
	}
	return nil
}

// ParsePhase accepts "Phase II", "phase ii", "II", or "2".
func ParsePhase(s string) (types.Phase, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	norm := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(strings.ToLower(s), "phase")))
	switch norm {
	case "1":
		norm = "I"
	case "2":
		norm = "II"
	case "3":
		norm = "III"
	case "4":
		norm = "IV"
	}
	p := types.Phase("Phase " + norm)
	if !p.Valid() {
		return "", fmt.Errorf("unknown phase %q", s)
	}
	return p, nil
}

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (types.TrialStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, st := range types.TrialStatuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}
