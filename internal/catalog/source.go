// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

//go:embed data/trials.yaml
var defaultCatalog []byte

// Default returns the catalog embedded in the binary.
func Default() (*Store, error) {
	raws, err := decodeYAML(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return Parse(raws)
}

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) catalog file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var raws []types.RawTrial
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		raws, err = decodeYAML(data)
	case ".json":
		err = json.Unmarshal(data, &raws)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q: use .yaml, .yml, or .json", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	store, err := Parse(raws)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return store, nil
}

// Open loads the catalog named by path: the embedded catalog when path is
// empty, a SQLite database for .db/.sqlite/.sqlite3, and a YAML or JSON
// file otherwise.
func Open(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		store  *Store
		err    error
		source = path
	)
	switch {
	case path == "":
		source = "embedded"
		store, err = Default()
	case isSQLitePath(path):
		store, err = LoadSQLite(ctx, path)
	default:
		store, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}

	log.Info("catalog loaded", zap.String("source", source), zap.Int("trials", store.Len()))
	return store, nil
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func decodeYAML(data []byte) ([]types.RawTrial, error) {
	var raws []types.RawTrial
	if err := yaml.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}
