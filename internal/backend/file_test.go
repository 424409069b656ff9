package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
)

func newTestFileBackend(t *testing.T) (*FileBackend, string) {
	t.Helper()

	dir := t.TempDir()
	b, err := NewFileBackend(config.FileBackend{Dir: dir}, logger.Nop())
	require.NoError(t, err)

	return b, dir
}

func TestFileBackend_DownloadMissing(t *testing.T) {
	b, _ := newTestFileBackend(t)
	dest := filepath.Join(t.TempDir(), "snapshot.db")

	exists, err := b.Download(context.Background(), dest)

	require.NoError(t, err)
	assert.False(t, exists)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileBackend_UploadThenDownload(t *testing.T) {
	b, _ := newTestFileBackend(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "src.db")
	require.NoError(t, os.WriteFile(src, []byte("snapshot-bytes"), 0o600))

	require.NoError(t, b.Upload(ctx, src))

	dest := filepath.Join(t.TempDir(), "fetched.db")
	exists, err := b.Download(ctx, dest)

	require.NoError(t, err)
	assert.True(t, exists)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot-bytes"), got)
}

func TestFileBackend_UploadOverwrites(t *testing.T) {
	b, _ := newTestFileBackend(t)
	ctx := context.Background()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.db")
	second := filepath.Join(dir, "second.db")
	require.NoError(t, os.WriteFile(first, []byte("v1"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("v2"), 0o600))

	require.NoError(t, b.Upload(ctx, first))
	require.NoError(t, b.Upload(ctx, second))

	dest := filepath.Join(dir, "fetched.db")
	exists, err := b.Download(ctx, dest)
	require.NoError(t, err)
	require.True(t, exists)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestFileBackend_MissingDir(t *testing.T) {
	_, err := NewFileBackend(config.FileBackend{}, logger.Nop())
	assert.Error(t, err)
}

func TestBackendFactory_UnknownKind(t *testing.T) {
	_, err := New(config.Backend{Kind: "carrier-pigeon"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
