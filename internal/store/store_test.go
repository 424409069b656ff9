package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/models"
)

func newTestStore(t *testing.T) *DB {
	t.Helper()
	db := newTestStoreAt(t, filepath.Join(t.TempDir(), "notes.db"))
	return db
}

func newTestStoreAt(t *testing.T, path string) *DB {
	t.Helper()

	db, err := Open(context.Background(), path, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.EnsureInitialized())
	t.Cleanup(func() { db.Close() })

	return db
}

func testNotebook(uuid, name string, updatedAt time.Time) models.Notebook {
	return models.Notebook{
		UUID:      uuid,
		Name:      name,
		CreatedAt: updatedAt.Add(-time.Hour),
		UpdatedAt: updatedAt,
	}
}

func testNote(uuid, notebookUUID, title string, updatedAt time.Time) models.Note {
	return models.Note{
		UUID:         uuid,
		NotebookUUID: notebookUUID,
		Title:        title,
		Content:      "content of " + title,
		CreatedAt:    updatedAt.Add(-time.Hour),
		UpdatedAt:    updatedAt,
	}
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")

	db, err := Open(context.Background(), path, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
	assert.Equal(t, path, db.Path())
}

func TestEnsureInitialized_EmptyStoreUsable(t *testing.T) {
	db := newTestStore(t)

	count, err := db.CountNotebooks(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCheckpoint_FlushesWAL(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)

	now := time.Now().UTC()
	require.NoError(t, db.UpsertNotebook(ctx, testNotebook("nb-1", "inbox", now)))

	require.NoError(t, db.Checkpoint(ctx))

	// after a truncating checkpoint the WAL must be empty
	walInfo, err := os.Stat(db.Path() + "-wal")
	if err == nil {
		assert.Zero(t, walInfo.Size())
	}

	size, err := db.Size()
	require.NoError(t, err)
	assert.Positive(t, size)
}

func TestReplaceWith_SubstitutesContent(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	dst := newTestStore(t)
	require.NoError(t, dst.UpsertNotebook(ctx, testNotebook("nb-old", "old", now)))

	srcDir := t.TempDir()
	src := newTestStoreAt(t, filepath.Join(srcDir, "other.db"))
	require.NoError(t, src.UpsertNotebook(ctx, testNotebook("nb-new", "new", now)))
	require.NoError(t, src.UpsertNote(ctx, testNote("n-1", "nb-new", "hello", now)))
	require.NoError(t, src.Checkpoint(ctx))

	require.NoError(t, dst.ReplaceWith(ctx, src.Path()))

	notebooks, err := dst.ListNotebooks(ctx)
	require.NoError(t, err)
	require.Len(t, notebooks, 1)
	assert.Equal(t, "nb-new", notebooks[0].UUID)

	notes, err := dst.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n-1", notes[0].UUID)
	assert.Equal(t, "nb-new", notes[0].NotebookUUID)
}

func TestSetMetadata_Overwrites(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)

	require.NoError(t, db.SetMetadata(ctx, "last_sync_direction", "upload"))
	require.NoError(t, db.SetMetadata(ctx, "last_sync_direction", "noop"))

	value, ok, err := db.GetMetadata(ctx, "last_sync_direction")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "noop", value)
}

func TestGetMetadata_MissingKey(t *testing.T) {
	db := newTestStore(t)

	_, ok, err := db.GetMetadata(context.Background(), "never_set")
	require.NoError(t, err)
	assert.False(t, ok)
}
