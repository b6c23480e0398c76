package iconset

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ImportOptions configures a directory import
type ImportOptions struct {
	// Prefix is the namespace prefix for the resulting set
	Prefix string

	// Recursive controls whether subdirectories are descended into
	Recursive bool
}

// ImportDir scans a directory tree of SVG files and builds an icon set
// keyed by sanitized filenames. Non-SVG files are ignored. When two files
// sanitize to the same key, the first one wins.
func ImportDir(root string, opts ImportOptions) (*Set, error) {
	set := New(opts.Prefix)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if !opts.Recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(d.Name()), ".svg") {
			return nil
		}

		key := Sanitize(d.Name())
		if key == "" {
			slog.Debug("Skipping file with empty sanitized key", "file", path)
			return nil
		}
		if set.Has(key) {
			slog.Debug("Skipping duplicate icon key", "key", key, "file", path)
			return nil
		}

		//nolint:gosec // Paths come from walking the provider source tree
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		set.Add(key, string(body))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", root, err)
	}

	return set, nil
}
