// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the immutable set of trial listings and loads it
// from the embedded default catalog, YAML/JSON files, or a SQLite database.
// Display strings ("$500", "12 weeks") are parsed once here so that a
// malformed record fails the load instead of corrupting later searches.
package catalog

import (
	"errors"
	"fmt"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

// ErrNotFound is returned by ByID when no record has the requested id.
var ErrNotFound = errors.New("not found")

// Store is a read-only, in-memory trial catalog. It is safe for concurrent
// use because nothing mutates it after New returns.
type Store struct {
	records []types.TrialRecord
	byID    map[string]int
}

// New validates records and builds a Store that keeps them in declaration
// order. Every invalid record is reported as a *MalformedRecordError; the
// errors are joined and no Store is returned.
func New(records []types.TrialRecord) (*Store, error) {
	s := &Store{
		records: make([]types.TrialRecord, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}

	var errs []error
	for i, r := range records {
		if err := validateRecord(r); err != nil {
			errs = append(errs, malformed(r.ID, i, err))
			continue
		}
		if _, dup := s.byID[r.ID]; dup {
			errs = append(errs, &MalformedRecordError{
				ID: r.ID, Index: i, Field: "id", Value: r.ID,
				Err: errDuplicateID,
			})
			continue
		}
		s.byID[r.ID] = len(s.records)
		s.records = append(s.records, r.Clone())
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// All returns every record in catalog order. The slice and the records in
// it are copies; changing them does not affect the store.
func (s *Store) All() []types.TrialRecord {
	out := make([]types.TrialRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// ByID returns a copy of the record with the given id, or an error wrapping
// ErrNotFound.
func (s *Store) ByID(id string) (types.TrialRecord, error) {
	idx, ok := s.byID[id]
	if !ok {
		return types.TrialRecord{}, fmt.Errorf("trial %s: %w", id, ErrNotFound)
	}
	return s.records[idx].Clone(), nil
}

// Len returns the number of records in the catalog.
func (s *Store) Len() int {
	return len(s.records)
}

// each calls fn for every record in order without copying. fn must not
// retain or modify the record's slices.
func (s *Store) each(fn func(types.TrialRecord)) {
	for _, r := range s.records {
		fn(r)
	}
}
