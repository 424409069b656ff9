package merge

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-note-sync/internal/store"
	"github.com/MKhiriev/go-note-sync/models"
)

type tombstoneKey struct {
	uuid string
	kind string
}

// side bundles one store with the counter tracking rows written to it.
type side struct {
	db      *store.DB
	changes *int
}

// Merge reconciles local and remote in place.
//
// Order matters: deletions are applied first so that a tombstoned row is
// never copied back, then notebooks before notes so that every note upsert
// finds its containing notebook. A row edited after its recorded deletion
// wins over the tombstone and is merged normally.
func (m *NotesMerger) Merge(ctx context.Context, local, remote *store.DB) (models.MergeStats, error) {
	var stats models.MergeStats

	localSide := side{db: local, changes: &stats.LocalChanges}
	remoteSide := side{db: remote, changes: &stats.RemoteChanges}

	tombstones, err := m.mergeTombstones(ctx, localSide, remoteSide)
	if err != nil {
		return stats, err
	}

	if err = m.applyDeletions(ctx, tombstones, &stats, localSide, remoteSide); err != nil {
		return stats, err
	}

	if err = m.mergeNotebooks(ctx, tombstones, localSide, remoteSide); err != nil {
		return stats, err
	}

	if err = m.mergeNotes(ctx, tombstones, &stats, localSide, remoteSide); err != nil {
		return stats, err
	}

	m.logger.Debug().Str("func", "NotesMerger.Merge").
		Int("local_changes", stats.LocalChanges).
		Int("remote_changes", stats.RemoteChanges).
		Int("notes_merged", stats.NotesMerged).
		Int("notes_deleted", stats.NotesDeleted).
		Msg("merge finished")

	return stats, nil
}

// mergeTombstones builds the union of both tombstone sets, keeping the
// latest deleted_at per entity, and writes back whatever a side is missing.
func (m *NotesMerger) mergeTombstones(ctx context.Context, sides ...side) (map[tombstoneKey]models.Tombstone, error) {
	union := make(map[tombstoneKey]models.Tombstone)
	perSide := make([]map[tombstoneKey]models.Tombstone, len(sides))

	for i, s := range sides {
		listed, err := s.db.ListTombstones(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing tombstones: %w", err)
		}

		perSide[i] = make(map[tombstoneKey]models.Tombstone, len(listed))
		for _, t := range listed {
			key := tombstoneKey{uuid: t.UUID, kind: t.Kind}
			perSide[i][key] = t
			if known, ok := union[key]; !ok || t.DeletedAt.After(known.DeletedAt) {
				union[key] = t
			}
		}
	}

	for i, s := range sides {
		for key, t := range union {
			if own, ok := perSide[i][key]; ok && !t.DeletedAt.After(own.DeletedAt) {
				continue
			}
			if err := s.db.SaveTombstone(ctx, t); err != nil {
				return nil, fmt.Errorf("error propagating tombstone: %w", err)
			}
			*s.changes++
		}
	}

	return union, nil
}

// applyDeletions removes every row whose tombstone is at least as new as the
// row itself. Each deleted entity counts once toward NotesDeleted even when
// it is removed from both sides.
func (m *NotesMerger) applyDeletions(ctx context.Context, tombstones map[tombstoneKey]models.Tombstone, stats *models.MergeStats, sides ...side) error {
	for key, t := range tombstones {
		deleted := false

		for _, s := range sides {
			var removed bool
			var err error

			switch key.kind {
			case models.TombstoneNote:
				removed, err = deleteDeadNote(ctx, s.db, t)
			case models.TombstoneNotebook:
				removed, err = deleteDeadNotebook(ctx, s.db, t)
			}
			if err != nil {
				return err
			}
			if removed {
				*s.changes++
				deleted = true
			}
		}

		if deleted {
			stats.NotesDeleted++
		}
	}

	return nil
}

func deleteDeadNote(ctx context.Context, db *store.DB, t models.Tombstone) (bool, error) {
	notes, err := db.ListNotes(ctx)
	if err != nil {
		return false, fmt.Errorf("error listing notes for deletion: %w", err)
	}

	for _, n := range notes {
		if n.UUID != t.UUID || n.UpdatedAt.After(t.DeletedAt) {
			continue
		}
		if err = db.DeleteNote(ctx, n.UUID); err != nil {
			return false, fmt.Errorf("error applying note deletion: %w", err)
		}
		return true, nil
	}

	return false, nil
}

func deleteDeadNotebook(ctx context.Context, db *store.DB, t models.Tombstone) (bool, error) {
	notebooks, err := db.ListNotebooks(ctx)
	if err != nil {
		return false, fmt.Errorf("error listing notebooks for deletion: %w", err)
	}

	for _, nb := range notebooks {
		if nb.UUID != t.UUID || nb.UpdatedAt.After(t.DeletedAt) {
			continue
		}
		if err = db.DeleteNotebook(ctx, nb.UUID); err != nil {
			return false, fmt.Errorf("error applying notebook deletion: %w", err)
		}
		return true, nil
	}

	return false, nil
}

func (m *NotesMerger) mergeNotebooks(ctx context.Context, tombstones map[tombstoneKey]models.Tombstone, a, b side) error {
	aNotebooks, err := a.db.ListNotebooks(ctx)
	if err != nil {
		return fmt.Errorf("error listing notebooks: %w", err)
	}
	bNotebooks, err := b.db.ListNotebooks(ctx)
	if err != nil {
		return fmt.Errorf("error listing notebooks: %w", err)
	}

	aByUUID := indexNotebooks(aNotebooks)
	bByUUID := indexNotebooks(bNotebooks)

	for uuid, nb := range aByUUID {
		if isDead(tombstones, uuid, models.TombstoneNotebook, nb.UpdatedAt) {
			continue
		}
		other, ok := bByUUID[uuid]
		if !ok || nb.UpdatedAt.After(other.UpdatedAt) {
			if err = b.db.UpsertNotebook(ctx, nb); err != nil {
				return fmt.Errorf("error merging notebook %s: %w", uuid, err)
			}
			*b.changes++
		}
	}

	for uuid, nb := range bByUUID {
		if isDead(tombstones, uuid, models.TombstoneNotebook, nb.UpdatedAt) {
			continue
		}
		other, ok := aByUUID[uuid]
		if !ok || nb.UpdatedAt.After(other.UpdatedAt) {
			if err = a.db.UpsertNotebook(ctx, nb); err != nil {
				return fmt.Errorf("error merging notebook %s: %w", uuid, err)
			}
			*a.changes++
		}
	}

	return nil
}

func (m *NotesMerger) mergeNotes(ctx context.Context, tombstones map[tombstoneKey]models.Tombstone, stats *models.MergeStats, a, b side) error {
	aNotes, err := a.db.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("error listing notes: %w", err)
	}
	bNotes, err := b.db.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("error listing notes: %w", err)
	}

	aByUUID := indexNotes(aNotes)
	bByUUID := indexNotes(bNotes)

	merged := make(map[string]bool)

	for uuid, n := range aByUUID {
		if isDead(tombstones, uuid, models.TombstoneNote, n.UpdatedAt) {
			continue
		}
		other, ok := bByUUID[uuid]
		if !ok || n.UpdatedAt.After(other.UpdatedAt) {
			if err = b.db.UpsertNote(ctx, n); err != nil {
				return fmt.Errorf("error merging note %s: %w", uuid, err)
			}
			*b.changes++
			merged[uuid] = true
		}
	}

	for uuid, n := range bByUUID {
		if isDead(tombstones, uuid, models.TombstoneNote, n.UpdatedAt) {
			continue
		}
		other, ok := aByUUID[uuid]
		if !ok || n.UpdatedAt.After(other.UpdatedAt) {
			if err = a.db.UpsertNote(ctx, n); err != nil {
				return fmt.Errorf("error merging note %s: %w", uuid, err)
			}
			*a.changes++
			merged[uuid] = true
		}
	}

	stats.NotesMerged += len(merged)
	return nil
}

// isDead reports whether a tombstone still covers the row. A row edited
// after its recorded deletion is alive again.
func isDead(tombstones map[tombstoneKey]models.Tombstone, uuid, kind string, updatedAt time.Time) bool {
	t, ok := tombstones[tombstoneKey{uuid: uuid, kind: kind}]
	return ok && !updatedAt.After(t.DeletedAt)
}

func indexNotebooks(notebooks []models.Notebook) map[string]models.Notebook {
	byUUID := make(map[string]models.Notebook, len(notebooks))
	for _, nb := range notebooks {
		byUUID[nb.UUID] = nb
	}
	return byUUID
}

func indexNotes(notes []models.Note) map[string]models.Note {
	byUUID := make(map[string]models.Note, len(notes))
	for _, n := range notes {
		byUUID[n.UUID] = n
	}
	return byUUID
}
