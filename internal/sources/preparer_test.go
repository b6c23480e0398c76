package sources

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagramkit/cloudicons/internal/config"
)

// zipBytes builds an in-memory zip archive from name -> content pairs
func zipBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func archiveServer(t *testing.T, payload []byte, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	t.Run("fetches and extracts into empty directory", func(t *testing.T) {
		t.Parallel()
		payload := zipBytes(t, map[string]string{
			"compute/EC2 Instance.svg": "<svg>ec2</svg>",
		})
		server := archiveServer(t, payload, nil)

		dir := filepath.Join(t.TempDir(), "aws")
		prov := &config.ProviderConfig{Name: "aws", SourceURL: server.URL}

		preparer := NewArchivePreparer(nil)
		require.NoError(t, preparer.Prepare(context.Background(), prov, dir))

		data, err := os.ReadFile(filepath.Join(dir, "compute", "EC2 Instance.svg"))
		require.NoError(t, err)
		assert.Equal(t, "<svg>ec2</svg>", string(data))
	})

	t.Run("second run skips the network", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int64
		payload := zipBytes(t, map[string]string{"icon.svg": "<svg/>"})
		server := archiveServer(t, payload, &hits)

		dir := filepath.Join(t.TempDir(), "aws")
		prov := &config.ProviderConfig{Name: "aws", SourceURL: server.URL}
		preparer := NewArchivePreparer(nil)

		require.NoError(t, preparer.Prepare(context.Background(), prov, dir))
		require.NoError(t, preparer.Prepare(context.Background(), prov, dir))

		assert.Equal(t, int64(1), hits.Load())
	})

	t.Run("flatten strips the archive root", func(t *testing.T) {
		t.Parallel()
		payload := zipBytes(t, map[string]string{
			"Release_Icons/web/app.svg": "<svg>app</svg>",
		})
		server := archiveServer(t, payload, nil)

		dir := filepath.Join(t.TempDir(), "azure")
		prov := &config.ProviderConfig{Name: "azure", SourceURL: server.URL, FlattenRoot: true}

		require.NoError(t, NewArchivePreparer(nil).Prepare(context.Background(), prov, dir))

		_, err := os.Stat(filepath.Join(dir, "web", "app.svg"))
		require.NoError(t, err)
	})

	t.Run("fetch failure propagates and leaves directory empty", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		t.Cleanup(server.Close)

		dir := filepath.Join(t.TempDir(), "gcp")
		prov := &config.ProviderConfig{Name: "gcp", SourceURL: server.URL}

		err := NewArchivePreparer(nil).Prepare(context.Background(), prov, dir)
		require.Error(t, err)

		empty, emptyErr := IsDirEmpty(dir)
		require.NoError(t, emptyErr)
		assert.True(t, empty)
	})

	t.Run("corrupt archive propagates", func(t *testing.T) {
		t.Parallel()
		server := archiveServer(t, []byte("not a zip archive"), nil)

		dir := filepath.Join(t.TempDir(), "aws")
		prov := &config.ProviderConfig{Name: "aws", SourceURL: server.URL}

		err := NewArchivePreparer(nil).Prepare(context.Background(), prov, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to extract")
	})
}

func TestIsDirEmpty(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		empty, err := IsDirEmpty(t.TempDir())
		require.NoError(t, err)
		assert.True(t, empty)
	})

	t.Run("non-empty", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "icon.svg"), []byte("<svg/>"), 0600))

		empty, err := IsDirEmpty(dir)
		require.NoError(t, err)
		assert.False(t, empty)
	})

	t.Run("missing directory errors", func(t *testing.T) {
		t.Parallel()
		_, err := IsDirEmpty(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
	})
}
