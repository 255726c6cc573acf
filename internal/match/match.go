// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match filters, scores, and ranks catalog trials against a Query.
// Every search is a pure function of the catalog, the query, and the
// engine config: nothing is cached between calls and an Engine may be
// shared by concurrent callers.
package match

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

// Catalog is the read-only view of the trial catalog the engine needs.
// catalog.Store implements it.
type Catalog interface {
	All() []types.TrialRecord
	ByID(id string) (types.TrialRecord, error)
}

// MatchResult is a trial that survived filtering, with the score used for
// ranking and display.
type MatchResult struct {
	Trial          types.TrialRecord `json:"trial" yaml:"trial"`
	EffectiveScore int               `json:"effective_score" yaml:"effective_score"`
}

// Engine runs searches over a catalog.
type Engine struct {
	catalog Catalog
	cfg     types.MatchConfig
	log     *zap.Logger
}

// NewEngine returns an Engine over cat. A nil logger discards output.
func NewEngine(cat Catalog, cfg types.MatchConfig, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{catalog: cat, cfg: cfg, log: log}
}

// Search filters the catalog with every predicate q sets, scores the
// survivors, and orders them by q.SortKey with ascending ID as the
// tie-break. An empty result is not an error. Unknown sort keys order by
// match score; callers normalize keys with ParseSortKey. A result limit cuts
// the sorted list, so a limited broad search can omit records a narrower
// search returns.
func (e *Engine) Search(q Query) []MatchResult {
	f := newFilter(q)

	candidates := e.catalog.All()
	results := make([]MatchResult, 0, len(candidates))
	for _, r := range candidates {
		if !f.matches(r) {
			continue
		}
		results = append(results, MatchResult{
			Trial:          r,
			EffectiveScore: e.score(r, q),
		})
	}

	sortResults(results, q.SortKey)

	limit := q.MaxResults
	if limit <= 0 {
		limit = e.cfg.MaxResults
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	e.log.Debug("search complete",
		zap.String("text", q.SearchText),
		zap.String("location", q.Location),
		zap.String("condition", q.Condition),
		zap.String("phase", string(q.Phase)),
		zap.String("status", string(q.Status)),
		zap.String("sort", string(q.SortKey)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(results)),
	)
	return results
}

// GetByID returns the full record for id. Misses wrap catalog.ErrNotFound.
func (e *Engine) GetByID(id string) (types.TrialRecord, error) {
	return e.catalog.ByID(id)
}

// filter holds the normalized predicates of a query.
type filter struct {
	text      string
	location  string
	condition string
	phase     types.Phase
	status    types.TrialStatus
}

func newFilter(q Query) filter {
	return filter{
		text:      strings.ToLower(strings.TrimSpace(q.SearchText)),
		location:  strings.ToLower(strings.TrimSpace(q.Location)),
		condition: q.Condition,
		phase:     q.Phase,
		status:    q.Status,
	}
}

// matches reports whether r passes every predicate; unset predicates pass.
func (f filter) matches(r types.TrialRecord) bool {
	if f.text != "" && !matchesText(r, f.text) {
		return false
	}
	if f.location != "" && !strings.Contains(strings.ToLower(r.Location), f.location) {
		return false
	}
	if f.condition != "" && !r.HasCondition(f.condition) {
		return false
	}
	if f.phase != "" && r.Phase != f.phase {
		return false
	}
	if f.status != "" && r.Status != f.status {
		return false
	}
	return true
}

// matchesText checks title, description, then each condition tag. text is
// already lowercased.
func matchesText(r types.TrialRecord, text string) bool {
	if strings.Contains(strings.ToLower(r.Title), text) ||
		strings.Contains(strings.ToLower(r.Description), text) {
		return true
	}
	for _, c := range r.Conditions {
		if strings.Contains(strings.ToLower(c), text) {
			return true
		}
	}
	return false
}

// score returns the catalog prior, plus the configured boost when the
// query pinned a condition tag that the record carries. Result is clamped
// to [0,100].
func (e *Engine) score(r types.TrialRecord, q Query) int {
	s := r.BaseMatchScore
	if e.cfg.ConditionBoost > 0 && q.Condition != "" && r.HasCondition(q.Condition) {
		s += e.cfg.ConditionBoost
	}
	return min(max(s, 0), 100)
}

// sortResults orders results by key. IDs are unique, so the order is total.
func sortResults(results []MatchResult, key SortKey) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i].Trial, results[j].Trial
		switch key {
		case SortCompensation:
			if a.CompensationCents != b.CompensationCents {
				return a.CompensationCents > b.CompensationCents
			}
		case SortDuration:
			if a.DurationWeeks != b.DurationWeeks {
				return a.DurationWeeks < b.DurationWeeks
			}
		case SortParticipants:
			if a.Participants != b.Participants {
				return a.Participants > b.Participants
			}
		case SortLastUpdated:
			if !a.LastUpdated.Equal(b.LastUpdated) {
				return a.LastUpdated.After(b.LastUpdated)
			}
		default:
			if results[i].EffectiveScore != results[j].EffectiveScore {
				return results[i].EffectiveScore > results[j].EffectiveScore
			}
		}
		return a.ID < b.ID
	})
}
