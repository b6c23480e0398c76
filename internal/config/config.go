// Package config provides configuration loading and management for the
// icon build pipeline.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSourceDir is the directory holding extracted icon sources,
	// one subdirectory per provider.
	DefaultSourceDir = "source"

	// DefaultDistDir is the directory receiving the exported icon-set
	// artifacts.
	DefaultDistDir = "dist"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// SourceDir is the root directory for extracted provider sources.
	// Defaults to "source" if not specified.
	SourceDir string `yaml:"sourceDir,omitempty"`

	// DistDir is the root directory for exported icon-set artifacts.
	// Defaults to "dist" if not specified.
	DistDir string `yaml:"distDir,omitempty"`

	// Providers lists the icon providers to build, in build order.
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig defines a single icon provider configuration
type ProviderConfig struct {
	// Name is the identifier for this provider (e.g. "aws", "azure", "gcp").
	// It names the source subdirectory and the exported artifact.
	Name string `yaml:"name"`

	// SourceURL is the URL of the zip archive holding the provider's
	// SVG icon tree.
	SourceURL string `yaml:"sourceUrl"`

	// Prefix is the icon-set namespace prefix. Defaults to Name.
	Prefix string `yaml:"prefix,omitempty"`

	// Recursive controls whether the importer descends into
	// subdirectories of the source tree.
	Recursive bool `yaml:"recursive,omitempty"`

	// FlattenRoot strips the archive's single top-level directory during
	// extraction. Some providers wrap the whole icon tree in a release
	// folder (e.g. "Azure_Public_Service_Icons/").
	FlattenRoot bool `yaml:"flattenRoot,omitempty"`

	// Aliases maps raw source filenames to human-friendly alias names
	// assigned after import (e.g. "EC2 Instance.svg" -> "compute").
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// GetPrefix returns the icon-set prefix, falling back to the provider name
func (p *ProviderConfig) GetPrefix() string {
	if p.Prefix == "" {
		return p.Name
	}
	return p.Prefix
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	// As of now, this is required because there's no other options to load
	// configuration. Once we add more options, we can remove this check.
	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults fills in defaults for optional top-level settings
func (c *Config) applyDefaults() {
	if c.SourceDir == "" {
		c.SourceDir = DefaultSourceDir
	}
	if c.DistDir == "" {
		c.DistDir = DefaultDistDir
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}

	providerNames := make(map[string]bool)
	for i, prov := range c.Providers {
		if prov.Name == "" {
			return fmt.Errorf("provider[%d]: name is required", i)
		}

		if providerNames[prov.Name] {
			return fmt.Errorf("provider[%d]: duplicate provider name '%s'", i, prov.Name)
		}
		providerNames[prov.Name] = true

		if err := validateProviderConfig(&prov, i); err != nil {
			return err
		}
	}

	return nil
}

// validateProviderConfig validates a single provider configuration
func validateProviderConfig(prov *ProviderConfig, index int) error {
	prefix := fmt.Sprintf("provider[%d] (%s)", index, prov.Name)

	if err := validateSourceURL(prov.SourceURL, prefix); err != nil {
		return err
	}

	return validateAliases(prov.Aliases, prefix)
}

// validateSourceURL ensures the source URL is present and well-formed
func validateSourceURL(rawURL string, prefix string) error {
	if rawURL == "" {
		return fmt.Errorf("%s: sourceUrl is required", prefix)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s: sourceUrl is not a valid URL: %w", prefix, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: sourceUrl must use http or https, got %q", prefix, parsed.Scheme)
	}

	return nil
}

// validateAliases ensures alias entries are non-empty on both sides
func validateAliases(aliases map[string]string, prefix string) error {
	for filename, alias := range aliases {
		if filename == "" {
			return fmt.Errorf("%s: alias entry has empty filename", prefix)
		}
		if alias == "" {
			return fmt.Errorf("%s: alias for %q cannot be empty", prefix, filename)
		}
	}
	return nil
}
