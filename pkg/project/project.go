package project

import (
	"os"
	"path/filepath"
	"testing/fstest"

	"github.com/pkg/errors"
)

// image is the standard dbt project skeleton. Only top-level directories are
// created up front; model subdirectories come from the mapping document as
// generation proceeds.
var image = fstest.MapFS{
	"models": {Mode: os.ModeDir | 0o755},
	"macros": {Mode: os.ModeDir | 0o755},
	"tests":  {Mode: os.ModeDir | 0o755},
	"docs":   {Mode: os.ModeDir | 0o755},
	"logs":   {Mode: os.ModeDir | 0o755},
	"target": {Mode: os.ModeDir | 0o755},
}

// CreateStructure materializes the project skeleton below root. The
// operation is idempotent: existing directories and their contents are left
// untouched, so it is safe to run in populated project roots.
func CreateStructure(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create project root: %s", root)
	}

	for path := range image {
		if err := os.MkdirAll(filepath.Join(root, path), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory: %s", path)
		}
	}

	return nil
}
