// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

// QueryFile is the on-disk form of a saved search: the query that ran and
// the ranked trials it returned. Reloading a query file replays the search
// against the current catalog.
type QueryFile struct {
	Query   QueryParams   `yaml:"query"`
	Results []SavedResult `yaml:"results"`
	Summary QuerySummary  `yaml:"summary"`
}

// QueryParams stores the query in a serializable form.
type QueryParams struct {
	SearchText string `yaml:"search_text,omitempty"`
	Location   string `yaml:"location,omitempty"`
	Condition  string `yaml:"condition,omitempty"`
	Phase      string `yaml:"phase,omitempty"`
	Status     string `yaml:"status,omitempty"`
	SortKey    string `yaml:"sort_key,omitempty"`
	MaxResults int    `yaml:"max_results,omitempty"`
}

// SavedResult records one ranked trial without its full detail.
type SavedResult struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Score int    `yaml:"score"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a query and its results to a YAML file.
func WriteQueryFile(path string, q Query, results []MatchResult) error {
	qf := QueryFile{
		Query: QueryParams{
			SearchText: q.SearchText,
			Location:   q.Location,
			Condition:  q.Condition,
			Phase:      string(q.Phase),
			Status:     string(q.Status),
			SortKey:    string(q.SortKey),
			MaxResults: q.MaxResults,
		},
		Results: make([]SavedResult, len(results)),
		Summary: QuerySummary{
			Total:     len(results),
			Timestamp: time.Now().UTC(),
		},
	}
	for i, r := range results {
		qf.Results[i] = SavedResult{ID: r.Trial.ID, Title: r.Trial.Title, Score: r.EffectiveScore}
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToQuery converts stored QueryParams back into a validated Query.
func (p QueryParams) ToQuery() (Query, error) {
	q := Query{
		SearchText: p.SearchText,
		Location:   p.Location,
		Condition:  p.Condition,
		Phase:      types.Phase(p.Phase),
		Status:     types.TrialStatus(p.Status),
		MaxResults: p.MaxResults,
	}
	key, err := ParseSortKey(p.SortKey)
	if err != nil {
		return q, fmt.Errorf("invalid sort_key: %w", err)
	}
	q.SortKey = key
	if err := q.Validate(); err != nil {
		return q, fmt.Errorf("invalid query: %w", err)
	}
	return q, nil
}
