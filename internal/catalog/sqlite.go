// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

const schema = `CREATE TABLE IF NOT EXISTS trials (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	conditions TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	compensation TEXT NOT NULL,
	duration TEXT NOT NULL,
	requirements TEXT NOT NULL DEFAULT '[]',
	status TEXT NOT NULL,
	phase TEXT NOT NULL,
	participants INTEGER NOT NULL,
	sponsor TEXT NOT NULL DEFAULT '',
	risk_level TEXT NOT NULL,
	last_updated TEXT NOT NULL,
	match_score INTEGER NOT NULL
)`

// trialRow is a row of the trials table. List columns hold JSON arrays.
type trialRow struct {
	types.RawTrial
	ConditionsJSON   string `db:"conditions"`
	RequirementsJSON string `db:"requirements"`
}

// LoadSQLite reads the trials table of a SQLite catalog database in
// insertion order. The database is opened read-only.
func LoadSQLite(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	db, err := sqlx.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}
	defer db.Close()

	var rows []trialRow
	err = db.SelectContext(ctx, &rows,
		`SELECT id, title, description, conditions, location, compensation, duration,
			requirements, status, phase, participants, sponsor, risk_level,
			last_updated, match_score
		FROM trials ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying trials: %w", err)
	}

	raws := make([]types.RawTrial, 0, len(rows))
	var errs []error
	for i, row := range rows {
		raw := row.RawTrial
		if err := json.Unmarshal([]byte(row.ConditionsJSON), &raw.Conditions); err != nil {
			errs = append(errs, &MalformedRecordError{ID: raw.ID, Index: i, Field: "conditions", Value: row.ConditionsJSON, Err: err})
			continue
		}
		if err := json.Unmarshal([]byte(row.RequirementsJSON), &raw.Requirements); err != nil {
			errs = append(errs, &MalformedRecordError{ID: raw.ID, Index: i, Field: "requirements", Value: row.RequirementsJSON, Err: err})
			continue
		}
		raws = append(raws, raw)
	}
	if len(errs) > 0 {
		// Parse the decodable rows too so one load reports every bad record.
		if _, err := Parse(raws); err != nil {
			errs = append(errs, err)
		}
		return nil, fmt.Errorf("loading catalog %s: %w", path, errors.Join(errs...))
	}

	store, err := Parse(raws)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return store, nil
}

// ExportSQLite writes every record of s to a new SQLite database at path,
// replacing any existing file. LoadSQLite reads it back unchanged.
func ExportSQLite(ctx context.Context, s *Store, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing old export: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx,
		`INSERT INTO trials (id, title, description, conditions, location, compensation,
			duration, requirements, status, phase, participants, sponsor, risk_level,
			last_updated, match_score)
		VALUES (:id, :title, :description, :conditions, :location, :compensation,
			:duration, :requirements, :status, :phase, :participants, :sponsor,
			:risk_level, :last_updated, :match_score)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var insertErr error
	s.each(func(r types.TrialRecord) {
		if insertErr != nil {
			return
		}
		raw := r.ToRaw()
		condJSON, _ := json.Marshal(raw.Conditions)
		reqs := raw.Requirements
		if reqs == nil {
			reqs = []string{}
		}
		reqJSON, _ := json.Marshal(reqs)
		row := trialRow{RawTrial: raw, ConditionsJSON: string(condJSON), RequirementsJSON: string(reqJSON)}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			insertErr = fmt.Errorf("inserting trial %s: %w", r.ID, err)
		}
	})
	if insertErr != nil {
		return insertErr
	}

	return tx.Commit()
}
