//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Catalog groups targets that produce catalog artifacts from the embedded
// default catalog.
type Catalog mg.Namespace

const exportDir = "catalog"

// Export writes the default catalog as YAML, JSON, and SQLite into catalog/.
func (Catalog) Export() error {
	mg.Deps(Build)
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", exportDir, err)
	}
	bin := filepath.Join(binDir, binName)
	for format, name := range map[string]string{
		"yaml":   "trials.yaml",
		"json":   "trials.json",
		"sqlite": "trials.db",
	} {
		out := filepath.Join(exportDir, name)
		if err := sh.RunV(bin, "catalog", "export", "--format", format, "--out", out); err != nil {
			return fmt.Errorf("exporting %s: %w", format, err)
		}
		fmt.Println("  ", out)
	}
	return nil
}

// Validate checks the catalog named by TRIAL_MATCHER_CATALOG_PATH, or the
// embedded catalog when it is unset.
func (Catalog) Validate() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "catalog", "validate")
}
