package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appflowbuild/internal/appflowtest"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/metrics"
)

type byteRecorder struct {
	metrics.NoopRecorder
	bytes int64
}

func (b *byteRecorder) AddArtifactBytes(n int64) { b.bytes += n }

func TestDownload(t *testing.T) {
	srv := appflowtest.New(t)
	srv.Artifact = []byte("PK\x03\x04 fake ipa payload")
	rec := &byteRecorder{}

	path := filepath.Join(t.TempDir(), "CI-77.ipa")
	n, err := NewRetriever(srv.Client(), srv.App.ID, rec).Download(context.Background(), srv.JobID, path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(srv.Artifact)), n)
	assert.Equal(t, n, rec.bytes)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, srv.Artifact, data)
	assert.Equal(t, 1, srv.Count("GET", "/apps/abc123/packages/4242/download"))
	assert.Equal(t, 1, srv.Count("GET", "/artifacts/4242"))
}

func TestDownload_NoURL(t *testing.T) {
	srv := appflowtest.New(t)
	srv.OmitDownloadURL = true

	path := filepath.Join(t.TempDir(), "out.apk")
	_, err := NewRetriever(srv.Client(), srv.App.ID, nil).Download(context.Background(), srv.JobID, path)
	require.Error(t, err)
	assert.EqualError(t, err, "Failed to download binary")
	assert.NoFileExists(t, path)
	assert.Zero(t, srv.Count("GET", "/artifacts/4242"))
}

func TestDownload_UnwritablePath(t *testing.T) {
	srv := appflowtest.New(t)
	srv.Artifact = []byte("binary")

	path := filepath.Join(t.TempDir(), "missing-dir", "out.apk")
	_, err := NewRetriever(srv.Client(), srv.App.ID, nil).Download(context.Background(), srv.JobID, path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}
