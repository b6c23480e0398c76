package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/diagramkit/cloudicons/internal/archive"
	"github.com/diagramkit/cloudicons/internal/config"
	"github.com/diagramkit/cloudicons/internal/httpclient"
)

// Preparer guarantees a populated local source directory for a provider
type Preparer interface {
	// Prepare ensures dir exists and holds the provider's extracted
	// icon tree. A non-empty dir is left as-is.
	Prepare(ctx context.Context, prov *config.ProviderConfig, dir string) error
}

// archivePreparer fetches and extracts remote zip archives
type archivePreparer struct {
	httpClient httpclient.Client
}

// NewArchivePreparer creates a preparer that downloads provider archives
// over HTTP. A nil client falls back to the default client.
func NewArchivePreparer(client httpclient.Client) Preparer {
	if client == nil {
		client = httpclient.NewDefaultClient(0)
	}
	return &archivePreparer{httpClient: client}
}

// Prepare creates the source directory if needed and populates it from
// the provider archive when empty
func (p *archivePreparer) Prepare(ctx context.Context, prov *config.ProviderConfig, dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create source directory %s: %w", dir, err)
	}

	empty, err := IsDirEmpty(dir)
	if err != nil {
		return fmt.Errorf("failed to inspect source directory %s: %w", dir, err)
	}
	if !empty {
		slog.Debug("Source directory already populated, skipping fetch",
			"provider", prov.Name, "dir", dir)
		return nil
	}

	tmp, err := os.CreateTemp("", prov.Name+"-icons-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create temporary archive file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	startTime := time.Now()
	slog.Info("Fetching provider archive", "provider", prov.Name, "url", prov.SourceURL)

	if err := p.httpClient.Download(ctx, prov.SourceURL, tmpPath); err != nil {
		return fmt.Errorf("failed to fetch archive for %s: %w", prov.Name, err)
	}

	slog.Info("Archive fetch completed",
		"provider", prov.Name,
		"duration", time.Since(startTime).String())

	opts := archive.ExtractOptions{FlattenRoot: prov.FlattenRoot}
	if err := archive.ExtractZip(tmpPath, dir, opts); err != nil {
		return fmt.Errorf("failed to extract archive for %s: %w", prov.Name, err)
	}

	return nil
}

// IsDirEmpty reports whether the directory holds no entries
func IsDirEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()

	_, err = f.ReadDir(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}
