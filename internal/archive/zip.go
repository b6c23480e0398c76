// Package archive provides zip archive extraction for provider icon bundles.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractOptions controls how an archive is unpacked
type ExtractOptions struct {
	// FlattenRoot strips a single shared top-level directory from all
	// entry paths. It is a no-op when the archive has no such root.
	FlattenRoot bool
}

// ExtractZip unpacks the zip archive at src into the dest directory,
// preserving the archive's internal directory structure. Existing files
// are overwritten.
func ExtractZip(src, dest string, opts ExtractOptions) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		// The reader stays usable on ErrInsecurePath; the per-entry check
		// below reports the offending name.
		if !errors.Is(err, zip.ErrInsecurePath) {
			return fmt.Errorf("failed to open archive %s: %w", src, err)
		}
	}
	defer func() {
		_ = reader.Close()
	}()

	root := ""
	if opts.FlattenRoot {
		root = sharedRoot(reader.File)
	}

	for _, file := range reader.File {
		if err := extractEntry(file, dest, root); err != nil {
			return err
		}
	}

	return nil
}

// extractEntry writes a single archive entry under dest, stripping the
// root prefix when set
func extractEntry(file *zip.File, dest, root string) error {
	name := file.Name
	if root != "" {
		name = strings.TrimPrefix(name, root)
		if name == "" {
			return nil
		}
	}

	// Reject absolute paths and traversal outside dest (zip-slip)
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("archive entry has unsafe path: %s", file.Name)
	}

	target := filepath.Join(dest, filepath.FromSlash(name))

	if file.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", target, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	in, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", file.Name, err)
	}
	defer func() {
		_ = in.Close()
	}()

	//nolint:gosec // Entry path was validated as local above
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", target, err)
	}

	//nolint:gosec // Decompressed size is bounded by the provider archives we fetch
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to extract %s: %w", file.Name, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}

	return nil
}

// sharedRoot returns the single top-level directory shared by all entries,
// including the trailing slash, or empty when entries do not share one
func sharedRoot(files []*zip.File) string {
	root := ""
	for _, file := range files {
		name := file.Name
		idx := strings.Index(name, "/")
		if idx < 0 {
			// Top-level file, nothing to flatten
			return ""
		}
		prefix := name[:idx+1]
		if root == "" {
			root = prefix
			continue
		}
		if prefix != root {
			return ""
		}
	}
	return root
}
