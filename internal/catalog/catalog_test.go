// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

// --- test helpers ---

func rawTrial(id string) types.RawTrial {
	return types.RawTrial{
		ID:             id,
		Title:          "Trial " + id,
		Description:    "A study",
		Conditions:     []string{"diabetes"},
		Location:       "New York, NY",
		Compensation:   "$500",
		Duration:       "12 weeks",
		Requirements:   []string{"Age 18-65"},
		Status:         "Recruiting",
		Phase:          "Phase II",
		Participants:   100,
		Sponsor:        "Sponsor",
		RiskLevel:      "Low",
		LastUpdated:    "2025-01-15",
		BaseMatchScore: 90,
	}
}

func record(id string) types.TrialRecord {
	return types.TrialRecord{
		ID:                id,
		Title:             "Trial " + id,
		Conditions:        []string{"asthma"},
		Location:          "Chicago, IL",
		CompensationCents: 75000,
		DurationWeeks:     16,
		Status:            types.StatusActive,
		Phase:             types.PhaseIII,
		Participants:      50,
		RiskLevel:         types.RiskMedium,
		LastUpdated:       time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		BaseMatchScore:    80,
	}
}

func malformedErrors(t *testing.T, err error) []*MalformedRecordError {
	t.Helper()
	require.Error(t, err)
	var out []*MalformedRecordError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			var mre *MalformedRecordError
			require.True(t, errors.As(e, &mre), "unexpected error type: %v", e)
			out = append(out, mre)
		}
		return out
	}
	var mre *MalformedRecordError
	require.True(t, errors.As(err, &mre), "unexpected error type: %v", err)
	return append(out, mre)
}

// --- Store ---

func TestStoreAllKeepsDeclarationOrder(t *testing.T) {
	s, err := New([]types.TrialRecord{record("t3"), record("t1"), record("t2")})
	require.NoError(t, err)

	var ids []string
	for _, r := range s.All() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"t3", "t1", "t2"}, ids)
	assert.Equal(t, 3, s.Len())
}

func TestStoreAllReturnsCopies(t *testing.T) {
	s, err := New([]types.TrialRecord{record("t1")})
	require.NoError(t, err)

	all := s.All()
	all[0].Title = "changed"
	all[0].Conditions[0] = "changed"

	got, err := s.ByID("t1")
	require.NoError(t, err)
	assert.Equal(t, "Trial t1", got.Title)
	assert.Equal(t, []string{"asthma"}, got.Conditions)
}

func TestStoreDoesNotAliasInput(t *testing.T) {
	in := []types.TrialRecord{record("t1")}
	s, err := New(in)
	require.NoError(t, err)

	in[0].Conditions[0] = "changed"
	got, err := s.ByID("t1")
	require.NoError(t, err)
	assert.Equal(t, "asthma", got.Conditions[0])
}

func TestStoreByIDNotFound(t *testing.T) {
	s, err := New([]types.TrialRecord{record("t1")})
	require.NoError(t, err)

	_, err = s.ByID("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestNewRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *types.TrialRecord)
		field  string
	}{
		{"empty conditions", func(r *types.TrialRecord) { r.Conditions = nil }, "conditions"},
		{"uppercase condition", func(r *types.TrialRecord) { r.Conditions = []string{"Asthma"} }, "conditions[0]"},
		{"score above range", func(r *types.TrialRecord) { r.BaseMatchScore = 101 }, "base_match_score"},
		{"negative score", func(r *types.TrialRecord) { r.BaseMatchScore = -1 }, "base_match_score"},
		{"unknown status", func(r *types.TrialRecord) { r.Status = "Paused" }, "status"},
		{"unknown phase", func(r *types.TrialRecord) { r.Phase = "Phase V" }, "phase"},
		{"unknown risk", func(r *types.TrialRecord) { r.RiskLevel = "Extreme" }, "risk_level"},
		{"zero duration", func(r *types.TrialRecord) { r.DurationWeeks = 0 }, "duration_weeks"},
		{"negative compensation", func(r *types.TrialRecord) { r.CompensationCents = -5 }, "compensation_cents"},
		{"missing id", func(r *types.TrialRecord) { r.ID = "" }, "id"},
		{"missing title", func(r *types.TrialRecord) { r.Title = "" }, "title"},
		{"missing date", func(r *types.TrialRecord) { r.LastUpdated = time.Time{} }, "last_updated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := record("t1")
			tt.modify(&r)
			_, err := New([]types.TrialRecord{r})
			errs := malformedErrors(t, err)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]types.TrialRecord{record("t1"), record("t2"), record("t1")})
	errs := malformedErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "t1", errs[0].ID)
	assert.Equal(t, 2, errs[0].Index)
	assert.ErrorIs(t, errs[0], errDuplicateID)
}

// --- Parsing ---

func TestParseCompensation(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"$500", 50000, false},
		{"$1,200", 120000, false},
		{"$1200", 120000, false},
		{"$99.50", 9950, false},
		{"$99.5", 9950, false},
		{"$0", 0, false},
		{" $750 ", 75000, false},
		{"$1,234,567", 123456700, false},
		{"500", 0, true},
		{"USD 500", 0, true},
		{"$", 0, true},
		{"$12,00", 0, true},
		{"$5.999", 0, true},
		{"$-5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCompensation(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"12 weeks", 12, false},
		{"1 week", 1, false},
		{"52 Weeks", 52, false},
		{"0 weeks", 0, true},
		{"12", 0, true},
		{"3 months", 0, true},
		{"weeks", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConvertsDisplayStrings(t *testing.T) {
	raw := rawTrial("t1")
	raw.Compensation = "$1,200"
	raw.Conditions = []string{" Diabetes ", "TYPE-2-DIABETES"}

	s, err := Parse([]types.RawTrial{raw})
	require.NoError(t, err)

	r, err := s.ByID("t1")
	require.NoError(t, err)
	assert.Equal(t, int64(120000), r.CompensationCents)
	assert.Equal(t, 12, r.DurationWeeks)
	assert.Equal(t, []string{"diabetes", "type-2-diabetes"}, r.Conditions)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), r.LastUpdated)
	assert.Equal(t, types.PhaseII, r.Phase)
	assert.Equal(t, types.StatusRecruiting, r.Status)
}

func TestParseReportsEveryMalformedRecord(t *testing.T) {
	good := rawTrial("good")
	noDollar := rawTrial("no-dollar")
	noDollar.Compensation = "500"
	badDuration := rawTrial("bad-duration")
	badDuration.Duration = "twelve weeks"
	badDate := rawTrial("bad-date")
	badDate.LastUpdated = "01/15/2025"

	s, err := Parse([]types.RawTrial{good, noDollar, badDuration, badDate})
	assert.Nil(t, s)

	errs := malformedErrors(t, err)
	require.Len(t, errs, 3)
	assert.Equal(t, "no-dollar", errs[0].ID)
	assert.Equal(t, "compensation", errs[0].Field)
	assert.Equal(t, "500", errs[0].Value)
	assert.Equal(t, "duration", errs[1].Field)
	assert.Equal(t, "last_updated", errs[2].Field)
	assert.Contains(t, err.Error(), `malformed record no-dollar: compensation "500"`)
}

func TestParseRejectsEmptyConditionsAfterTrim(t *testing.T) {
	raw := rawTrial("t1")
	raw.Conditions = []string{"  "}
	_, err := Parse([]types.RawTrial{raw})
	errs := malformedErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "conditions", errs[0].Field)
}

func TestMalformedRecordsUnwrapsLoadErrors(t *testing.T) {
	bad1 := rawTrial("a")
	bad1.Duration = "0 weeks"
	bad2 := rawTrial("b")
	bad2.Status = "Paused"
	_, err := Parse([]types.RawTrial{bad1, bad2})
	require.Error(t, err)

	wrapped := fmt.Errorf("loading catalog x.yaml: %w", err)
	errs := MalformedRecords(wrapped)
	require.Len(t, errs, 2)
	assert.Equal(t, "a", errs[0].ID)
	assert.Equal(t, "b", errs[1].ID)
	assert.Equal(t, "status", errs[1].Field)

	assert.Empty(t, MalformedRecords(errors.New("disk on fire")))
	assert.Empty(t, MalformedRecords(nil))
}

// --- Sources ---

func TestDefaultCatalogLoads(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 8, s.Len())

	r, err := s.ByID("TRIAL_002")
	require.NoError(t, err)
	assert.Equal(t, int64(120000), r.CompensationCents)
	assert.Equal(t, 24, r.DurationWeeks)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
- id: t1
  title: Diabetes Study
  conditions: [diabetes]
  location: New York, NY
  compensation: $500
  duration: 12 weeks
  status: Recruiting
  phase: Phase III
  participants: 200
  risk_level: Low
  last_updated: 2025-01-15
  match_score: 95
`), 0o644))

	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"id":"t2","title":"Asthma Study",
		"conditions":["asthma"],"location":"Chicago, IL","compensation":"$1,200",
		"duration":"8 weeks","status":"Active","phase":"Phase I","participants":30,
		"risk_level":"High","last_updated":"2025-02-01","match_score":82}]`), 0o644))

	s, err := LoadFile(yamlPath)
	require.NoError(t, err)
	r, err := s.ByID("t1")
	require.NoError(t, err)
	assert.Equal(t, int64(50000), r.CompensationCents)

	s, err = LoadFile(jsonPath)
	require.NoError(t, err)
	r, err = s.ByID("t2")
	require.NoError(t, err)
	assert.Equal(t, 82, r.BaseMatchScore)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "reading catalog")

	txt := filepath.Join(dir, "catalog.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = LoadFile(txt)
	assert.ErrorContains(t, err, "unsupported catalog format")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- id: [unclosed"), 0o644))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "parsing catalog")

	malformedPath := filepath.Join(dir, "malformed.json")
	var buf bytes.Buffer
	store, err := Parse([]types.RawTrial{rawTrial("ok")})
	require.NoError(t, err)
	require.NoError(t, ExportJSON(store, &buf))
	data := bytes.Replace(buf.Bytes(), []byte(`"$500"`), []byte(`"500"`), 1)
	require.NoError(t, os.WriteFile(malformedPath, data, 0o644))
	_, err = LoadFile(malformedPath)
	var mre *MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "compensation", mre.Field)
}

func TestOpenDispatchesOnPath(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	s, err := Open(ctx, "", log)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Len())

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")
	require.NoError(t, ExportSQLite(ctx, s, dbPath))

	fromDB, err := Open(ctx, dbPath, log)
	require.NoError(t, err)
	assert.Equal(t, s.All(), fromDB.All())

	yamlPath := filepath.Join(dir, "catalog.yml")
	f, err := os.Create(yamlPath)
	require.NoError(t, err)
	require.NoError(t, ExportYAML(s, f))
	require.NoError(t, f.Close())

	fromYAML, err := Open(ctx, yamlPath, nil)
	require.NoError(t, err)
	assert.Equal(t, s.All(), fromYAML.All())
}

// --- Export ---

func TestExportRoundTrip(t *testing.T) {
	src, err := Default()
	require.NoError(t, err)
	dir := t.TempDir()

	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			var buf bytes.Buffer
			if ext == ".yaml" {
				require.NoError(t, ExportYAML(src, &buf))
			} else {
				require.NoError(t, ExportJSON(src, &buf))
			}
			path := filepath.Join(dir, "export"+ext)
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

			got, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, src.All(), got.All())
		})
	}
}

func TestExportSQLiteReplacesExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.sqlite")

	first, err := New([]types.TrialRecord{record("a"), record("b")})
	require.NoError(t, err)
	require.NoError(t, ExportSQLite(ctx, first, path))

	second, err := New([]types.TrialRecord{record("c")})
	require.NoError(t, err)
	require.NoError(t, ExportSQLite(ctx, second, path))

	got, err := LoadSQLite(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	_, err = got.ByID("c")
	assert.NoError(t, err)
}

func TestLoadSQLiteReportsEveryBadListColumn(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	s, err := New([]types.TrialRecord{record("a"), record("b"), record("c")})
	require.NoError(t, err)
	require.NoError(t, ExportSQLite(ctx, s, path))

	db, err := sqlx.Connect("sqlite3", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE trials SET conditions = 'not json' WHERE id = 'a'`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE trials SET requirements = '[' WHERE id = 'b'`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE trials SET status = 'Paused' WHERE id = 'c'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = LoadSQLite(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading catalog "+path)

	errs := MalformedRecords(err)
	require.Len(t, errs, 3)
	assert.Equal(t, "a", errs[0].ID)
	assert.Equal(t, "conditions", errs[0].Field)
	assert.Equal(t, "b", errs[1].ID)
	assert.Equal(t, "requirements", errs[1].Field)
	assert.Equal(t, "c", errs[2].ID)
	assert.Equal(t, "status", errs[2].Field)
}

func TestLoadSQLiteMissingFile(t *testing.T) {
	_, err := LoadSQLite(context.Background(), filepath.Join(t.TempDir(), "none.db"))
	assert.ErrorContains(t, err, "opening catalog database")
}

func TestFormatCentsMatchesParse(t *testing.T) {
	for _, cents := range []int64{0, 5, 9950, 50000, 120000, 123456700} {
		s := types.FormatCents(cents)
		got, err := ParseCompensation(s)
		require.NoError(t, err, s)
		assert.Equal(t, cents, got, s)
	}
	assert.Equal(t, "$1,200", types.FormatCents(120000))
	assert.Equal(t, "$0.05", types.FormatCents(5))
}
