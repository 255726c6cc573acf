// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

// Raw returns every record in its display-string form, in catalog order.
func (s *Store) Raw() []types.RawTrial {
	raws := make([]types.RawTrial, 0, s.Len())
	s.each(func(r types.TrialRecord) {
		raws = append(raws, r.ToRaw())
	})
	return raws
}

// ExportYAML writes the catalog to w in the same format LoadFile reads.
func ExportYAML(s *Store, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Raw()); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the catalog to w as an indented JSON array.
func ExportJSON(s *Store, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Raw()); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
