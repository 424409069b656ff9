package sync

import (
	"context"

	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/store"
)

// debugSummary logs notebook/note counts and the most recently updated
// entities of one store. Purely diagnostic: every failure inside it is
// logged and swallowed so instrumentation can never break a sync.
func debugSummary(ctx context.Context, log *logger.Logger, tag string, db *store.DB) {
	event := log.Debug().Str("func", "debugSummary").Str("store", tag)

	notebooks, err := db.CountNotebooks(ctx)
	if err != nil {
		log.Warn().Err(err).Str("store", tag).Msg("debug summary failed")
		return
	}
	notes, err := db.CountNotes(ctx)
	if err != nil {
		log.Warn().Err(err).Str("store", tag).Msg("debug summary failed")
		return
	}
	event = event.Int("notebooks", notebooks).Int("notes", notes)

	if nb, ok, err := db.LatestNotebook(ctx); err == nil && ok {
		event = event.Str("latest_notebook", nb.Name).Time("latest_notebook_at", nb.UpdatedAt)
	}
	if note, notebookName, ok, err := db.LatestNote(ctx); err == nil && ok {
		event = event.Str("latest_note", note.Title).
			Str("latest_note_notebook", notebookName).
			Time("latest_note_at", note.UpdatedAt)
	}

	event.Msg("store summary")
}
