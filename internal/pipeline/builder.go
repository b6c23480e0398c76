// Package pipeline orchestrates the per-provider icon build: prepare
// sources, import, clean, alias, export.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"

	"github.com/diagramkit/cloudicons/internal/alias"
	"github.com/diagramkit/cloudicons/internal/config"
	"github.com/diagramkit/cloudicons/internal/export"
	"github.com/diagramkit/cloudicons/internal/iconset"
	"github.com/diagramkit/cloudicons/internal/sources"
	"github.com/diagramkit/cloudicons/internal/svg"
)

// lockFileName guards the dist directory against concurrent builds
const lockFileName = ".cloudicons.lock"

// Provider build statuses
const (
	// StatusBuilt marks a provider whose artifact was exported
	StatusBuilt = "built"

	// StatusSkipped marks a provider whose source stayed empty
	StatusSkipped = "skipped"
)

// ProviderResult summarizes one provider's build
type ProviderResult struct {
	Provider string
	Status   string
	Icons    int
	Aliases  int
	Dropped  int
	Artifact string
}

// Option configures a Builder
type Option func(*Builder)

// WithPreparer overrides the source preparer (primarily for testing)
func WithPreparer(p sources.Preparer) Option {
	return func(b *Builder) {
		b.preparer = p
	}
}

// WithColorPolicy overrides the color policy applied during cleanup
func WithColorPolicy(policy svg.ColorPolicy) Option {
	return func(b *Builder) {
		b.colorPolicy = policy
	}
}

// WithConcurrency bounds the per-icon cleanup worker pool
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// Builder runs the build pipeline for configured providers
type Builder struct {
	cfg         *config.Config
	preparer    sources.Preparer
	cleaner     *svg.Cleaner
	exporter    *export.Exporter
	colorPolicy svg.ColorPolicy
	concurrency int
}

// New creates a Builder for the given configuration
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	exporter, err := export.NewExporter(cfg.DistDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	b := &Builder{
		cfg:      cfg,
		preparer: sources.NewArchivePreparer(nil),
		cleaner:  svg.NewCleaner(),
		exporter: exporter,
		// Icons carry provider brand colors that must survive cleanup
		colorPolicy: svg.IdentityColors,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// BuildAll runs the pipeline for every configured provider in declared
// order, strictly sequentially. When only is non-empty, it restricts the
// run to the named providers. A provider whose source cannot be
// populated aborts the run; an empty source skips the provider.
func (b *Builder) BuildAll(ctx context.Context, only []string) ([]ProviderResult, error) {
	providers, err := b.selectProviders(only)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(b.cfg.DistDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create dist directory: %w", err)
	}

	lock := flock.New(filepath.Join(b.cfg.DistDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire build lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another build is already running against %s", b.cfg.DistDir)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	results := make([]ProviderResult, 0, len(providers))
	for _, prov := range providers {
		result, err := b.buildProvider(ctx, prov)
		if err != nil {
			return results, fmt.Errorf("provider %s: %w", prov.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// selectProviders resolves the provider subset in config order
func (b *Builder) selectProviders(only []string) ([]*config.ProviderConfig, error) {
	if len(only) == 0 {
		providers := make([]*config.ProviderConfig, len(b.cfg.Providers))
		for i := range b.cfg.Providers {
			providers[i] = &b.cfg.Providers[i]
		}
		return providers, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}

	var providers []*config.ProviderConfig
	for i := range b.cfg.Providers {
		if wanted[b.cfg.Providers[i].Name] {
			providers = append(providers, &b.cfg.Providers[i])
			delete(wanted, b.cfg.Providers[i].Name)
		}
	}

	for name := range wanted {
		return nil, fmt.Errorf("unknown provider %q", name)
	}

	return providers, nil
}

// buildProvider runs the full pipeline for a single provider
func (b *Builder) buildProvider(ctx context.Context, prov *config.ProviderConfig) (ProviderResult, error) {
	result := ProviderResult{Provider: prov.Name}
	sourceDir := filepath.Join(b.cfg.SourceDir, prov.Name)

	startTime := time.Now()
	slog.Info("Building provider", "provider", prov.Name)

	if err := b.preparer.Prepare(ctx, prov, sourceDir); err != nil {
		return result, err
	}

	// A source that stayed empty is a skip, not an error
	empty, err := sources.IsDirEmpty(sourceDir)
	if err != nil {
		return result, fmt.Errorf("failed to inspect source directory: %w", err)
	}
	if empty {
		slog.Warn("Source directory empty after preparation, skipping provider",
			"provider", prov.Name, "dir", sourceDir)
		result.Status = StatusSkipped
		return result, nil
	}

	set, err := iconset.ImportDir(sourceDir, iconset.ImportOptions{
		Prefix:    prov.GetPrefix(),
		Recursive: prov.Recursive,
	})
	if err != nil {
		return result, err
	}
	slog.Info("Imported icons", "provider", prov.Name, "count", set.Len())

	result.Dropped = b.cleanAll(ctx, set)

	aliasResult := alias.Resolve(set, prov.Aliases)
	result.Aliases = aliasResult.Assigned

	artifact, err := b.exporter.Export(set, prov.Name)
	if err != nil {
		return result, err
	}

	result.Status = StatusBuilt
	result.Icons = set.Len()
	result.Artifact = artifact

	slog.Info("Provider build completed",
		"provider", prov.Name,
		"icons", result.Icons,
		"aliases", result.Aliases,
		"dropped", result.Dropped,
		"duration", time.Since(startTime).String())

	return result, nil
}

// cleanAll runs the cleanup pipeline over every icon through a bounded
// worker pool and joins before returning. Icons whose cleanup fails are
// removed from the set; one bad icon never aborts the batch. Returns the
// number of dropped icons.
func (b *Builder) cleanAll(_ context.Context, set *iconset.Set) int {
	type cleanedIcon struct {
		name string
		body string
	}

	var (
		mu      sync.Mutex
		cleaned []cleanedIcon
		failed  []string
	)

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for _, entry := range set.Entries() {
		if entry.Type != iconset.EntryTypeIcon {
			continue
		}

		name := entry.Name
		icon, ok := set.Get(name)
		if !ok {
			continue
		}
		body := icon.Body

		g.Go(func() error {
			out, err := b.cleaner.Clean(body, b.colorPolicy)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("Icon cleanup failed, dropping icon", "icon", name, "error", err)
				failed = append(failed, name)
				return nil
			}
			cleaned = append(cleaned, cleanedIcon{name: name, body: out})
			return nil
		})
	}

	// Join-all barrier: the set is only mutated once every worker is done
	_ = g.Wait()

	for _, c := range cleaned {
		if err := set.Replace(c.name, c.body); err != nil {
			slog.Warn("Failed to store cleaned icon", "icon", c.name, "error", err)
		}
	}
	for _, name := range failed {
		set.Remove(name)
	}

	return len(failed)
}

// RenderSummary writes a per-provider summary table for a completed run
func RenderSummary(w io.Writer, results []ProviderResult) error {
	table := tablewriter.NewTable(w)
	table.Header("Provider", "Status", "Icons", "Aliases", "Dropped", "Artifact")
	for _, r := range results {
		err := table.Append(
			r.Provider,
			r.Status,
			strconv.Itoa(r.Icons),
			strconv.Itoa(r.Aliases),
			strconv.Itoa(r.Dropped),
			r.Artifact,
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}
