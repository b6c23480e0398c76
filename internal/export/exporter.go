// Package export serializes finished icon sets to per-provider JSON
// artifacts.
package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/diagramkit/cloudicons/internal/iconset"
)

//go:embed iconset.schema.json
var schemaJSON string

const schemaName = "iconset.schema.json"

// Exporter writes icon-set artifacts into a dist directory
type Exporter struct {
	distDir string
	schema  *jsonschema.Schema
}

// NewExporter creates an exporter targeting distDir. The embedded
// artifact schema is compiled once up front.
func NewExporter(distDir string) (*Exporter, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, doc); err != nil {
		return nil, fmt.Errorf("failed to register schema: %w", err)
	}

	schema, err := compiler.Compile(schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Exporter{distDir: distDir, schema: schema}, nil
}

// ArtifactPath returns the output path for a provider's artifact
func (e *Exporter) ArtifactPath(provider string) string {
	return filepath.Join(e.distDir, provider+"-icons.json")
}

// Export serializes the icon set and writes <provider>-icons.json into
// the dist directory, overwriting any prior file. The artifact is
// validated against the icon-set schema before it replaces the old one.
func (e *Exporter) Export(set *iconset.Set, provider string) (string, error) {
	if err := os.MkdirAll(e.distDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create dist directory: %w", err)
	}

	data, err := json.MarshalIndent(set.Export(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal icon set: %w", err)
	}

	if err := e.validate(data); err != nil {
		return "", fmt.Errorf("artifact for %s failed schema validation: %w", provider, err)
	}

	filePath := e.ArtifactPath(provider)

	// Write to temporary file first for atomic replacement
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write temporary artifact: %w", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to rename artifact: %w", err)
	}

	return filePath, nil
}

// validate checks the serialized artifact against the embedded schema
func (e *Exporter) validate(data []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse artifact: %w", err)
	}
	return e.schema.Validate(inst)
}
