// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for trial-matcher.
// Implements: the catalog data model (TrialRecord, RawTrial) and the
// enumerations used by the matching engine (TrialStatus, Phase, RiskLevel).
package types

import (
	"fmt"
	"slices"
	"time"
)

// DateFormat is the calendar-date layout used for LastUpdated in catalog files.
const DateFormat = "2006-01-02"

// TrialStatus is the recruitment state of a trial listing.
type TrialStatus string

const (
	StatusRecruiting TrialStatus = "Recruiting"
	StatusEnrolling  TrialStatus = "Enrolling"
	StatusActive     TrialStatus = "Active"
	StatusCompleted  TrialStatus = "Completed"
)

// TrialStatuses lists every valid TrialStatus in display order.
var TrialStatuses = []TrialStatus{StatusRecruiting, StatusEnrolling, StatusActive, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s TrialStatus) Valid() bool {
	return slices.Contains(TrialStatuses, s)
}

// Phase is the clinical study phase.
type Phase string

const (
	PhaseI   Phase = "Phase I"
	PhaseII  Phase = "Phase II"
	PhaseIII Phase = "Phase III"
	PhaseIV  Phase = "Phase IV"
)

// Phases lists every valid Phase in order.
var Phases = []Phase{PhaseI, PhaseII, PhaseIII, PhaseIV}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	return slices.Contains(Phases, p)
}

// RiskLevel is the curatorial risk rating shown with a listing.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevels lists every valid RiskLevel in increasing order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// Valid reports whether r is one of the known risk levels.
func (r RiskLevel) Valid() bool {
	return slices.Contains(RiskLevels, r)
}

// TrialRecord is one clinical study listing as held by the catalog. Numeric
// fields are already parsed from their display strings; records are never
// mutated after load.
type TrialRecord struct {
	// ID is an opaque identifier, unique across the catalog.
	ID string `json:"id" yaml:"id" validate:"required"`

	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description" yaml:"description"`

	// Conditions are lowercase condition tags in catalog order. Never empty.
	Conditions []string `json:"conditions" yaml:"conditions" validate:"min=1,dive,required,lowercase"`

	// Location is free text, typically "City, Region".
	Location string `json:"location" yaml:"location"`

	// CompensationCents is the participant compensation in cents.
	CompensationCents int64 `json:"compensation_cents" yaml:"compensation_cents" validate:"gte=0"`

	// DurationWeeks is the study duration in whole weeks.
	DurationWeeks int `json:"duration_weeks" yaml:"duration_weeks" validate:"gt=0"`

	// Requirements are eligibility criteria as free text.
	Requirements []string `json:"requirements" yaml:"requirements"`

	Status       TrialStatus `json:"status" yaml:"status" validate:"trial_status"`
	Phase        Phase       `json:"phase" yaml:"phase" validate:"trial_phase"`
	Participants int         `json:"participants" yaml:"participants" validate:"gt=0"`
	Sponsor      string      `json:"sponsor" yaml:"sponsor"`
	RiskLevel    RiskLevel   `json:"risk_level" yaml:"risk_level" validate:"risk_level"`
	LastUpdated  time.Time   `json:"last_updated" yaml:"last_updated"`

	// BaseMatchScore is the catalog-supplied prior in [0,100], independent
	// of any query.
	BaseMatchScore int `json:"base_match_score" yaml:"base_match_score" validate:"gte=0,lte=100"`
}

// Clone returns a copy of r that shares no slices with it.
func (r TrialRecord) Clone() TrialRecord {
	r.Conditions = slices.Clone(r.Conditions)
	r.Requirements = slices.Clone(r.Requirements)
	return r
}

// HasCondition reports whether tag is one of r's conditions (exact match).
func (r TrialRecord) HasCondition(tag string) bool {
	return slices.Contains(r.Conditions, tag)
}

// RawTrial is the display-string form of a trial as it appears in catalog
// files and the SQLite catalog table. Compensation reads like "$1,200" and
// Duration like "12 weeks".
type RawTrial struct {
	ID             string   `json:"id" yaml:"id" db:"id"`
	Title          string   `json:"title" yaml:"title" db:"title"`
	Description    string   `json:"description" yaml:"description" db:"description"`
	Conditions     []string `json:"conditions" yaml:"conditions" db:"-"`
	Location       string   `json:"location" yaml:"location" db:"location"`
	Compensation   string   `json:"compensation" yaml:"compensation" db:"compensation"`
	Duration       string   `json:"duration" yaml:"duration" db:"duration"`
	Requirements   []string `json:"requirements,omitempty" yaml:"requirements,omitempty" db:"-"`
	Status         string   `json:"status" yaml:"status" db:"status"`
	Phase          string   `json:"phase" yaml:"phase" db:"phase"`
	Participants   int      `json:"participants" yaml:"participants" db:"participants"`
	Sponsor        string   `json:"sponsor" yaml:"sponsor" db:"sponsor"`
	RiskLevel      string   `json:"risk_level" yaml:"risk_level" db:"risk_level"`
	LastUpdated    string   `json:"last_updated" yaml:"last_updated" db:"last_updated"`
	BaseMatchScore int      `json:"match_score" yaml:"match_score" db:"match_score"`
}

// ToRaw renders r back into its display-string form. The result parses to
// a record equal to r.
func (r TrialRecord) ToRaw() RawTrial {
	return RawTrial{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Conditions:     slices.Clone(r.Conditions),
		Location:       r.Location,
		Compensation:   FormatCents(r.CompensationCents),
		Duration:       FormatWeeks(r.DurationWeeks),
		Requirements:   slices.Clone(r.Requirements),
		Status:         string(r.Status),
		Phase:          string(r.Phase),
		Participants:   r.Participants,
		Sponsor:        r.Sponsor,
		RiskLevel:      string(r.RiskLevel),
		LastUpdated:    r.LastUpdated.Format(DateFormat),
		BaseMatchScore: r.BaseMatchScore,
	}
}

// FormatCents renders an amount in cents as a dollar display string
// ("$500", "$1,200", "$99.50").
func FormatCents(cents int64) string {
	dollars := cents / 100
	rem := cents % 100

	s := fmt.Sprintf("%d", dollars)
	// Insert thousands separators.
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if rem != 0 {
		return fmt.Sprintf("$%s.%02d", s, rem)
	}
	return "$" + s
}

// FormatWeeks renders a week count as "1 week" or "N weeks".
func FormatWeeks(weeks int) string {
	if weeks == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", weeks)
}
