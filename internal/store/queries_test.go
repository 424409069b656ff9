package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-sync/models"
)

func TestUpsertNotebook_InsertAndUpdate(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, db.UpsertNotebook(ctx, testNotebook("nb-1", "inbox", now)))
	require.NoError(t, db.UpsertNotebook(ctx, testNotebook("nb-1", "renamed", now.Add(time.Minute))))

	notebooks, err := db.ListNotebooks(ctx)
	require.NoError(t, err)
	require.Len(t, notebooks, 1)
	assert.Equal(t, "renamed", notebooks[0].Name)
	assert.Equal(t, now.Add(time.Minute), notebooks[0].UpdatedAt.UTC())
}

func TestUpsertNote_InsertAndUpdate(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, db.UpsertNotebook(ctx, testNotebook("nb-1", "inbox", now)))
	require.NoError(t, db.UpsertNote(ctx, testNote("n-1", "nb-1", "first", now)))

	updated := testNote("n-1", "nb-1", "second", now.Add(time.Minute))
	require.NoError(t, db.UpsertNote(ctx, updated))

	notes, err := db.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "second", notes[0].Title)
	assert.Equal(t, "content of second", notes[0].Content)
}

func TestDeleteNote_AbsentIsNoError(t *testing.T) {
	db := newTestStore(t)
	require.NoError(t, db.DeleteNote(context.Background(), "no-such-note"))
}

func TestDeleteNotebook_RemovesContainedNotes(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, db.UpsertNotebook(ctx, testNotebook("nb-1", "inbox", now)))
	require.NoError(t, db.UpsertNote(ctx, testNote("n-1", "nb-1", "a", now)))
	require.NoError(t, db.UpsertNote(ctx, testNote("n-2", "nb-1", "b", now)))

	require.NoError(t, db.DeleteNotebook(ctx, "nb-1"))

	notebooks, err := db.ListNotebooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, notebooks)

	notes, err := db.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestSaveTombstone_UpsertByUUIDAndKind(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	ts := models.Tombstone{UUID: "n-1", Kind: models.TombstoneNote, DeletedAt: now}
	require.NoError(t, db.SaveTombstone(ctx, ts))

	ts.DeletedAt = now.Add(time.Minute)
	require.NoError(t, db.SaveTombstone(ctx, ts))

	tombstones, err := db.ListTombstones(ctx)
	require.NoError(t, err)
	require.Len(t, tombstones, 1)
	assert.Equal(t, now.Add(time.Minute), tombstones[0].DeletedAt.UTC())
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, db.UpsertNotebook(ctx, testNotebook("nb-1", "inbox", now)))
	require.NoError(t, db.UpsertNote(ctx, testNote("n-1", "nb-1", "a", now)))
	require.NoError(t, db.UpsertNote(ctx, testNote("n-2", "nb-1", "b", now)))

	notebooks, err := db.CountNotebooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, notebooks)

	notes, err := db.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, notes)
}

func TestLatestNotebook_EmptyStore(t *testing.T) {
	db := newTestStore(t)

	_, ok, err := db.LatestNotebook(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLatestNote_ReturnsMostRecent(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, db.UpsertNotebook(ctx, testNotebook("nb-1", "inbox", now)))
	require.NoError(t, db.UpsertNote(ctx, testNote("n-1", "nb-1", "older", now)))
	require.NoError(t, db.UpsertNote(ctx, testNote("n-2", "nb-1", "newer", now.Add(time.Hour))))

	note, notebookName, ok, err := db.LatestNote(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "n-2", note.UUID)
	assert.Equal(t, "inbox", notebookName)
}
