// Package merge reconciles two notes stores in both directions. Rows are
// matched by UUID, conflicts are resolved by the newer updated_at, and
// recorded deletions propagate to the side that has not seen them yet.
package merge

import (
	"context"

	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/store"
	"github.com/MKhiriev/go-note-sync/models"
)

//go:generate mockgen -source=merge.go -destination=../mock/mock_merger.go -package=mock

// Merger reconciles the local store with a store opened over a remote
// snapshot and reports how many rows changed on each side.
type Merger interface {
	Merge(ctx context.Context, local, remote *store.DB) (models.MergeStats, error)
}

// NotesMerger is the production Merger over SQLite-backed stores.
type NotesMerger struct {
	logger *logger.Logger
}

func NewNotesMerger(log *logger.Logger) *NotesMerger {
	return &NotesMerger{logger: log}
}
