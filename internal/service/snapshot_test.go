package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-sync/internal/logger"
)

func newTestSnapshotService(t *testing.T) SnapshotService {
	t.Helper()

	s, err := NewSnapshotService(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	return s
}

func TestSnapshotService_InfoWithoutSnapshot(t *testing.T) {
	s := newTestSnapshotService(t)

	_, err := s.Info(context.Background())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshotService_OpenWithoutSnapshot(t *testing.T) {
	s := newTestSnapshotService(t)

	_, _, err := s.Open(context.Background())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshotService_SaveThenOpen(t *testing.T) {
	ctx := context.Background()
	s := newTestSnapshotService(t)

	info, err := s.Save(ctx, strings.NewReader("snapshot-bytes"))
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.EqualValues(t, len("snapshot-bytes"), info.Size)
	assert.NotEmpty(t, info.Digest)

	r, openInfo, err := s.Open(ctx)
	require.NoError(t, err)
	defer r.Close()

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "snapshot-bytes", string(body))
	assert.Equal(t, info.Digest, openInfo.Digest)
}

func TestSnapshotService_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := newTestSnapshotService(t)

	first, err := s.Save(ctx, strings.NewReader("v1"))
	require.NoError(t, err)
	second, err := s.Save(ctx, strings.NewReader("v2 is longer"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Digest, second.Digest)

	r, _, err := s.Open(ctx)
	require.NoError(t, err)
	defer r.Close()

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "v2 is longer", string(body))
}

func TestNewSnapshotService_EmptyDir(t *testing.T) {
	_, err := NewSnapshotService("", logger.Nop())
	assert.Error(t, err)
}
