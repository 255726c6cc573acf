// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

var errDuplicateID = errors.New("duplicate id")

// MalformedRecordError describes a catalog record that failed to parse or
// validate. Field uses the catalog file's field names (e.g. "compensation").
type MalformedRecordError struct {
	ID    string
	Index int
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	id := e.ID
	if id == "" {
		id = fmt.Sprintf("#%d", e.Index)
	}
	if e.Value != "" {
		return fmt.Sprintf("malformed record %s: %s %q: %v", id, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed record %s: %s: %v", id, e.Field, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// recordValidator returns the shared validator with the trial enum
// validations registered.
func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		v.RegisterValidation("trial_status", func(fl validator.FieldLevel) bool {
			return types.TrialStatus(fl.Field().String()).Valid()
		})
		v.RegisterValidation("trial_phase", func(fl validator.FieldLevel) bool {
			return types.Phase(fl.Field().String()).Valid()
		})
		v.RegisterValidation("risk_level", func(fl validator.FieldLevel) bool {
			return types.RiskLevel(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// fieldError carries the first failing field out of validateRecord so that
// malformed can name it.
type fieldError struct {
	field string
	value string
	err   error
}

func (e *fieldError) Error() string { return e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }

// validateRecord checks the TrialRecord invariants: required id and title,
// non-empty lowercase conditions, known enums, and a score in [0,100].
func validateRecord(r types.TrialRecord) error {
	err := recordValidator().Struct(r)
	if err == nil {
		if r.LastUpdated.IsZero() {
			return &fieldError{field: "last_updated", err: errors.New("missing date")}
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &fieldError{
		field: fieldName(fe.Namespace()),
		value: fmt.Sprint(fe.Value()),
		err:   fmt.Errorf("failed %q check", fe.Tag()),
	}
}

// fieldName strips the struct prefix from a validator namespace
// ("TrialRecord.conditions[0]" -> "conditions[0]").
func fieldName(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func malformed(id string, index int, err error) *MalformedRecordError {
	var fe *fieldError
	if errors.As(err, &fe) {
		return &MalformedRecordError{ID: id, Index: index, Field: fe.field, Value: fe.value, Err: fe.err}
	}
	return &MalformedRecordError{ID: id, Index: index, Field: "record", Err: err}
}

// MalformedRecords returns every *MalformedRecordError inside err, walking
// wrapped and joined errors, in the order they were reported.
func MalformedRecords(err error) []*MalformedRecordError {
	var out []*MalformedRecordError
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *MalformedRecordError:
			out = append(out, e)
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return out
}
