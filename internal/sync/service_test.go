package sync

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/merge"
	"github.com/MKhiriev/go-note-sync/internal/mock"
	"github.com/MKhiriev/go-note-sync/internal/progress"
	"github.com/MKhiriev/go-note-sync/internal/store"
	"github.com/MKhiriev/go-note-sync/models"
)

func openSeededStore(t *testing.T, name string, seed func(db *store.DB)) *store.DB {
	t.Helper()

	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), name), logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.EnsureInitialized())
	t.Cleanup(func() { db.Close() })

	if seed != nil {
		seed(db)
	}
	require.NoError(t, db.Checkpoint(context.Background()))

	return db
}

func seedOneNote(t *testing.T, db *store.DB, notebookUUID, noteUUID, title string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, db.UpsertNotebook(ctx, models.Notebook{
		UUID: notebookUUID, Name: "inbox", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, db.UpsertNote(ctx, models.Note{
		UUID: noteUUID, NotebookUUID: notebookUUID, Title: title,
		Content: "content of " + title, CreatedAt: now, UpdatedAt: now,
	}))
}

// snapshotOf checkpoints the store and copies its file into a fixture path,
// so a mocked backend can serve it as the remote snapshot.
func snapshotOf(t *testing.T, db *store.DB) string {
	t.Helper()

	require.NoError(t, db.Checkpoint(context.Background()))

	path := filepath.Join(t.TempDir(), "fixture.db")
	copyTestFile(t, db.Path(), path)
	return path
}

func copyTestFile(t *testing.T, src, dst string) {
	t.Helper()

	in, err := os.Open(src)
	require.NoError(t, err)
	defer in.Close()

	out, err := os.Create(dst)
	require.NoError(t, err)
	_, err = io.Copy(out, in)
	require.NoError(t, err)
	require.NoError(t, out.Close())
}

// serveSnapshot makes the mocked backend deliver the fixture file and
// records where the workspace asked for it.
func serveSnapshot(b *mock.MockBackend, fixture string, dest *string) {
	b.EXPECT().Download(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, path string) (bool, error) {
			*dest = path
			if fixture == "" {
				return false, nil
			}
			in, err := os.ReadFile(fixture)
			if err != nil {
				return false, err
			}
			return true, os.WriteFile(path, in, 0o600)
		})
}

// recordingProgress keeps every label shown through Start and Update.
type recordingProgress struct {
	label string
	seen  []string
}

func (p *recordingProgress) Label() string         { return p.label }
func (p *recordingProgress) SetLabel(label string) { p.label = label }

func (p *recordingProgress) Start(label string) {
	p.label = label
	p.seen = append(p.seen, label)
}

func (p *recordingProgress) Update(label string) {
	p.label = label
	p.seen = append(p.seen, label)
}

func (p *recordingProgress) Stop()                     {}
func (p *recordingProgress) Summary(models.SyncResult) {}

func newTestService(t *testing.T, local *store.DB, b *mock.MockBackend, m merge.Merger) *Service {
	t.Helper()
	return NewService(local, b, m, progress.Nop(), config.Sync{}, logger.Nop())
}

func requireWorkspaceGone(t *testing.T, dest string) {
	t.Helper()
	require.NotEmpty(t, dest)
	_, err := os.Stat(filepath.Dir(dest))
	assert.True(t, os.IsNotExist(err), "workspace directory still exists")
}

func TestSync_PullWithoutRemoteFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, "", &dest)

	svc := newTestService(t, local, b, merge.NewNotesMerger(logger.Nop()))
	_, err := svc.Sync(context.Background(), models.SyncPull)

	require.ErrorIs(t, err, ErrRemoteMissingForPull)
	requireWorkspaceGone(t, dest)

	_, ok, err := local.GetMetadata(context.Background(), "last_sync_at")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSync_MissingRemoteForcesUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", func(db *store.DB) {
		seedOneNote(t, db, "nb-1", "n-1", "hello")
	})

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, "", &dest)
	b.EXPECT().Upload(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, src string) error {
			info, err := os.Stat(src)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
			return nil
		})

	svc := newTestService(t, local, b, merge.NewNotesMerger(logger.Nop()))
	result, err := svc.Sync(context.Background(), models.SyncBoth)

	require.NoError(t, err)
	assert.True(t, result.Uploaded)
	assert.False(t, result.Downloaded)
	requireWorkspaceGone(t, dest)

	direction, ok, err := local.GetMetadata(context.Background(), "last_sync_direction")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "upload", direction)
}

func TestSync_IdenticalSnapshotsAreNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", func(db *store.DB) {
		seedOneNote(t, db, "nb-1", "n-1", "hello")
	})

	// the remote fixture is a byte-identical copy of the local snapshot
	fixture := snapshotOf(t, local)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, fixture, &dest)

	m := mock.NewMockMerger(ctrl)
	m.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.MergeStats{}, nil)

	svc := newTestService(t, local, b, m)
	result, err := svc.Sync(context.Background(), models.SyncBoth)

	require.NoError(t, err)
	assert.False(t, result.Uploaded)
	assert.False(t, result.Downloaded)
	assert.Equal(t, "No changes detected", result.Message)

	direction, ok, err := local.GetMetadata(context.Background(), "last_sync_direction")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "noop", direction)
	requireWorkspaceGone(t, dest)
}

func TestSync_LocalChangesMeanDownloaded(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)
	fixture := snapshotOf(t, local)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, fixture, &dest)

	m := mock.NewMockMerger(ctrl)
	m.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.MergeStats{LocalChanges: 2, NotesMerged: 2}, nil)

	svc := newTestService(t, local, b, m)
	result, err := svc.Sync(context.Background(), models.SyncBoth)

	require.NoError(t, err)
	assert.False(t, result.Uploaded)
	assert.True(t, result.Downloaded)
	assert.Equal(t, "Downloaded changes, merged 2 notes", result.Message)

	direction, _, err := local.GetMetadata(context.Background(), "last_sync_direction")
	require.NoError(t, err)
	assert.Equal(t, "download", direction)
}

func TestSync_DigestFallbackReplacesLocal(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)

	other := openSeededStore(t, "other.db", func(db *store.DB) {
		seedOneNote(t, db, "nb-remote", "n-remote", "from remote")
	})
	fixture := snapshotOf(t, other)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, fixture, &dest)

	// a merger that misses the divergence entirely
	m := mock.NewMockMerger(ctrl)
	m.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.MergeStats{}, nil)

	svc := newTestService(t, local, b, m)
	result, err := svc.Sync(context.Background(), models.SyncBoth)

	require.NoError(t, err)
	assert.True(t, result.Downloaded)
	assert.False(t, result.Uploaded)

	// the replace copies the remote bytes verbatim, then the metadata step
	// writes last_sync_at and last_sync_direction into the replaced file;
	// those two rows are the only divergence from the fetched snapshot, so
	// equality is checked row-level rather than on raw digests
	notes, err := local.ListNotes(context.Background())
	require.NoError(t, err)
	remoteNotes, err := other.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, remoteNotes, notes)
	assert.Equal(t, "n-remote", notes[0].UUID)

	direction, ok, err := local.GetMetadata(context.Background(), "last_sync_direction")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "download", direction)
	requireWorkspaceGone(t, dest)
}

func TestSync_NarratesPhases(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)

	other := openSeededStore(t, "other.db", func(db *store.DB) {
		seedOneNote(t, db, "nb-1", "n-1", "hello")
	})
	fixture := snapshotOf(t, other)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, fixture, &dest)

	m := mock.NewMockMerger(ctrl)
	m.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.MergeStats{LocalChanges: 1, NotesMerged: 1}, nil)

	p := &recordingProgress{}
	svc := NewService(local, b, m, p, config.Sync{}, logger.Nop())
	_, err := svc.Sync(context.Background(), models.SyncBoth)
	require.NoError(t, err)

	assert.Contains(t, p.seen, "Fetching remote snapshot")
	assert.Contains(t, p.seen, "Preparing merge (remote: "+dest+")")
	assert.Contains(t, p.seen, "Merging notes")
	assert.Contains(t, p.seen, "Applied 1 change locally")

	var sized bool
	for _, label := range p.seen {
		if strings.Contains(label, "bytes") {
			sized = true
		}
	}
	assert.True(t, sized, "store sizes never narrated")
}

func TestSync_UploadWinsInMetadataWhenBothHappen(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)
	fixture := snapshotOf(t, local)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, fixture, &dest)
	b.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(nil)

	m := mock.NewMockMerger(ctrl)
	m.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.MergeStats{LocalChanges: 1, RemoteChanges: 1, NotesMerged: 2}, nil)

	svc := newTestService(t, local, b, m)
	result, err := svc.Sync(context.Background(), models.SyncBoth)

	require.NoError(t, err)
	assert.True(t, result.Uploaded)
	assert.True(t, result.Downloaded)

	direction, _, err := local.GetMetadata(context.Background(), "last_sync_direction")
	require.NoError(t, err)
	assert.Equal(t, "upload", direction)
}

func TestSync_PushUploadsEvenWithoutChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)
	fixture := snapshotOf(t, local)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, fixture, &dest)
	b.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(nil)

	m := mock.NewMockMerger(ctrl)
	m.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.MergeStats{}, nil)

	svc := newTestService(t, local, b, m)
	result, err := svc.Sync(context.Background(), models.SyncPush)

	require.NoError(t, err)
	assert.True(t, result.Uploaded)
	assert.False(t, result.Downloaded)
}

func TestSync_LastSyncAtAlwaysWritten(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)
	fixture := snapshotOf(t, local)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, fixture, &dest)

	m := mock.NewMockMerger(ctrl)
	m.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.MergeStats{}, nil)

	svc := newTestService(t, local, b, m)
	_, err := svc.Sync(context.Background(), models.SyncBoth)
	require.NoError(t, err)

	value, ok, err := local.GetMetadata(context.Background(), "last_sync_at")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
}

func TestSync_WorkspaceReleasedOnMergeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)
	fixture := snapshotOf(t, local)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, fixture, &dest)

	mergeErr := errors.New("merge exploded")
	m := mock.NewMockMerger(ctrl)
	m.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.MergeStats{}, mergeErr)

	svc := newTestService(t, local, b, m)
	_, err := svc.Sync(context.Background(), models.SyncBoth)

	require.ErrorIs(t, err, mergeErr)
	requireWorkspaceGone(t, dest)
}

func TestSync_WorkspaceReleasedOnUploadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", func(db *store.DB) {
		seedOneNote(t, db, "nb-1", "n-1", "hello")
	})

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, "", &dest)
	uploadErr := errors.New("network down")
	b.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(uploadErr)

	svc := newTestService(t, local, b, merge.NewNotesMerger(logger.Nop()))
	_, err := svc.Sync(context.Background(), models.SyncBoth)

	require.ErrorIs(t, err, uploadErr)
	requireWorkspaceGone(t, dest)
}

func TestSync_RestoresProgressLabel(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)
	fixture := snapshotOf(t, local)

	b := mock.NewMockBackend(ctrl)
	var dest string
	serveSnapshot(b, fixture, &dest)

	m := mock.NewMockMerger(ctrl)
	m.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.MergeStats{}, nil)

	p := progress.Nop()
	p.SetLabel("Idle")

	svc := NewService(local, b, m, p, config.Sync{}, logger.Nop())
	_, err := svc.Sync(context.Background(), models.SyncBoth)

	require.NoError(t, err)
	assert.Equal(t, "Idle", p.Label())
}

func TestSync_UnknownDirection(t *testing.T) {
	ctrl := gomock.NewController(t)
	local := openSeededStore(t, "local.db", nil)

	svc := newTestService(t, local, mock.NewMockBackend(ctrl), mock.NewMockMerger(ctrl))
	_, err := svc.Sync(context.Background(), models.SyncDirection("sideways"))

	assert.ErrorIs(t, err, ErrUnknownDirection)
}
