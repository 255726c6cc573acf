// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

// compensationPattern matches "$500", "$1,200", "$1200.50". The currency
// symbol is mandatory.
var compensationPattern = regexp.MustCompile(`^\$(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?$`)

// durationPattern matches "12 weeks" or "1 week".
var durationPattern = regexp.MustCompile(`(?i)^(\d+)\s+weeks?$`)

// Parse converts display-string trials into records and builds a Store.
// Every malformed record is reported; if any record fails, no Store is
// returned.
func Parse(raws []types.RawTrial) (*Store, error) {
	records := make([]types.TrialRecord, 0, len(raws))
	var errs []error
	for i, raw := range raws {
		r, err := parseRecord(raw)
		if err == nil {
			err = validateRecord(r)
		}
		if err != nil {
			errs = append(errs, malformed(raw.ID, i, err))
			continue
		}
		records = append(records, r)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return New(records)
}

func parseRecord(raw types.RawTrial) (types.TrialRecord, error) {
	cents, err := ParseCompensation(raw.Compensation)
	if err != nil {
		return types.TrialRecord{}, &fieldError{field: "compensation", value: raw.Compensation, err: err}
	}
	weeks, err := ParseDuration(raw.Duration)
	if err != nil {
		return types.TrialRecord{}, &fieldError{field: "duration", value: raw.Duration, err: err}
	}
	updated, err := time.Parse(types.DateFormat, strings.TrimSpace(raw.LastUpdated))
	if err != nil {
		return types.TrialRecord{}, &fieldError{field: "last_updated", value: raw.LastUpdated, err: errors.New("expected YYYY-MM-DD")}
	}

	conditions := make([]string, 0, len(raw.Conditions))
	for _, c := range raw.Conditions {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			conditions = append(conditions, c)
		}
	}

	return types.TrialRecord{
		ID:                strings.TrimSpace(raw.ID),
		Title:             raw.Title,
		Description:       raw.Description,
		Conditions:        conditions,
		Location:          raw.Location,
		CompensationCents: cents,
		DurationWeeks:     weeks,
		Requirements:      raw.Requirements,
		Status:            types.TrialStatus(raw.Status),
		Phase:             types.Phase(raw.Phase),
		Participants:      raw.Participants,
		Sponsor:           raw.Sponsor,
		RiskLevel:         types.RiskLevel(raw.RiskLevel),
		LastUpdated:       updated,
		BaseMatchScore:    raw.BaseMatchScore,
	}, nil
}

// ParseCompensation converts a dollar display string such as "$1,200" or
// "$99.50" to cents.
func ParseCompensation(s string) (int64, error) {
	m := compensationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errors.New(`expected a dollar amount like "$500"`)
	}
	dollars, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount: %w", err)
	}
	if dollars > math.MaxInt64/100-1 {
		return 0, errors.New("amount out of range")
	}
	var cents int64
	if frac := m[2]; frac != "" {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}
	return dollars*100 + cents, nil
}

// ParseDuration converts a display string such as "12 weeks" to a positive
// week count.
func ParseDuration(s string) (int, error) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errors.New(`expected a duration like "12 weeks"`)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("parsing weeks: %w", err)
	}
	if n <= 0 {
		return 0, errors.New("duration must be positive")
	}
	return n, nil
}
