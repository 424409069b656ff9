// Package sync implements the snapshot synchronization protocol: fetch the
// remote snapshot into a private workspace, merge it with the local store,
// then decide from merge counters and content digests whether to upload,
// replace the local store, or do nothing.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-note-sync/internal/backend"
	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/merge"
	"github.com/MKhiriev/go-note-sync/internal/progress"
	"github.com/MKhiriev/go-note-sync/internal/store"
	"github.com/MKhiriev/go-note-sync/models"
)

const (
	metaLastSyncAt        = "last_sync_at"
	metaLastSyncDirection = "last_sync_direction"
)

// Service runs the synchronization protocol against one local store.
// At most one Sync call may be active per store; callers serialize.
type Service struct {
	local    *store.DB
	backend  backend.Backend
	merger   merge.Merger
	progress progress.Progress
	debug    bool
	logger   *logger.Logger

	// openRemote materializes a store over the fetched snapshot file.
	// Swappable in tests.
	openRemote func(ctx context.Context, path string, log *logger.Logger) (*store.DB, error)
}

func NewService(local *store.DB, b backend.Backend, m merge.Merger, p progress.Progress, cfg config.Sync, log *logger.Logger) *Service {
	return &Service{
		local:      local,
		backend:    b,
		merger:     m,
		progress:   p,
		debug:      cfg.Debug,
		logger:     log,
		openRemote: store.Open,
	}
}

// Sync performs one full synchronization in the requested direction and
// reports what happened. The merge runs regardless of direction; direction
// gates only the transport decisions. Errors from the backend and the store
// propagate to the caller after the workspace is released; nothing is
// retried here.
func (s *Service) Sync(ctx context.Context, direction models.SyncDirection) (models.SyncResult, error) {
	switch direction {
	case models.SyncPull, models.SyncPush, models.SyncBoth:
	default:
		return models.SyncResult{}, fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}

	// the caller may own a visible indicator; put its label back afterward
	previousLabel := s.progress.Label()
	defer s.progress.SetLabel(previousLabel)

	s.progress.Start("Preparing sync")
	defer s.progress.Stop()

	ws, err := newWorkspace()
	if err != nil {
		return models.SyncResult{}, err
	}
	defer ws.Release(s.logger)

	// fingerprint of the local snapshot before anything mutates it; the
	// fallback decision below compares against this value
	localDigestBefore, err := FileDigest(s.local.Path())
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("error computing local digest: %w", err)
	}

	s.progress.Update("Fetching remote snapshot")
	remoteExists, err := s.backend.Download(ctx, ws.File)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("error fetching remote snapshot: %w", err)
	}

	if direction == models.SyncPull && !remoteExists {
		return models.SyncResult{}, ErrRemoteMissingForPull
	}

	s.progress.Update(fmt.Sprintf("Preparing merge (remote: %s)", ws.File))

	remote, err := s.openRemote(ctx, ws.File, s.logger)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("error opening remote snapshot: %w", err)
	}
	defer remote.Close()

	if err = remote.EnsureInitialized(); err != nil {
		return models.SyncResult{}, fmt.Errorf("error initializing remote snapshot: %w", err)
	}

	if s.debug {
		debugSummary(ctx, s.logger, "local before merge", s.local)
		debugSummary(ctx, s.logger, "remote before merge", remote)
	}

	s.progress.Update("Merging notes")
	s.narrateSizes(remote)

	stats, err := s.merger.Merge(ctx, s.local, remote)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("error merging stores: %w", err)
	}

	if s.debug {
		debugSummary(ctx, s.logger, "local after merge", s.local)
		debugSummary(ctx, s.logger, "remote after merge", remote)
	}

	// both WALs must be flushed before any byte of either file is digested
	// or uploaded
	if err = s.local.Checkpoint(ctx); err != nil {
		return models.SyncResult{}, fmt.Errorf("error checkpointing local store: %w", err)
	}
	if err = remote.Checkpoint(ctx); err != nil {
		return models.SyncResult{}, fmt.Errorf("error checkpointing remote store: %w", err)
	}

	var remoteDigest string
	if remoteExists {
		remoteDigest, err = FileDigest(ws.File)
		if err != nil {
			return models.SyncResult{}, fmt.Errorf("error computing remote digest: %w", err)
		}
	}

	downloaded := stats.LocalChanges > 0
	uploaded := false

	if stats.LocalChanges > 0 {
		s.progress.Update(formatApplied(stats.LocalChanges))
	}

	// a missing remote always counts as changed: it has to be created
	remoteChanged := stats.RemoteChanges > 0 || !remoteExists
	if (direction == models.SyncPush || direction == models.SyncBoth) && (remoteChanged || direction == models.SyncPush) {
		s.progress.Update("Uploading snapshot")
		if err = s.backend.Upload(ctx, ws.File); err != nil {
			return models.SyncResult{}, fmt.Errorf("error uploading snapshot: %w", err)
		}
		uploaded = true
	}

	// content-level safety net: the merge reported no local changes, yet
	// the remote bytes differ from the pre-merge local snapshot
	if !downloaded &&
		(direction == models.SyncPull || direction == models.SyncBoth) &&
		remoteExists && remoteDigest != "" && remoteDigest != localDigestBefore {
		s.progress.Update("Replacing local store")
		if err = s.local.ReplaceWith(ctx, ws.File); err != nil {
			return models.SyncResult{}, fmt.Errorf("error replacing local store: %w", err)
		}
		if err = s.local.Checkpoint(ctx); err != nil {
			return models.SyncResult{}, fmt.Errorf("error checkpointing replaced store: %w", err)
		}
		downloaded = true

		if s.debug {
			debugSummary(ctx, s.logger, "local after replace", s.local)
		}
	}

	if err = s.local.SetMetadata(ctx, metaLastSyncAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return models.SyncResult{}, fmt.Errorf("error writing sync metadata: %w", err)
	}

	directionLabel := "noop"
	switch {
	case uploaded:
		directionLabel = "upload"
	case downloaded:
		directionLabel = "download"
	}
	if err = s.local.SetMetadata(ctx, metaLastSyncDirection, directionLabel); err != nil {
		return models.SyncResult{}, fmt.Errorf("error writing sync metadata: %w", err)
	}

	result := models.SyncResult{
		Uploaded:      uploaded,
		Downloaded:    downloaded,
		Message:       formatMessage(uploaded, downloaded, stats),
		MergedNotes:   stats.NotesMerged,
		DeletedNotes:  stats.NotesDeleted,
		LocalChanges:  stats.LocalChanges,
		RemoteChanges: stats.RemoteChanges,
	}

	s.logger.Info().
		Str("func", "Service.Sync").
		Str("direction", string(direction)).
		Bool("uploaded", result.Uploaded).
		Bool("downloaded", result.Downloaded).
		Msg(result.Message)
	s.progress.Summary(result)

	return result, nil
}

// narrateSizes reports both snapshot file sizes through the progress
// surface. Informational only, a failed stat is skipped.
func (s *Service) narrateSizes(remote *store.DB) {
	localSize, err := s.local.Size()
	if err != nil {
		return
	}
	remoteSize, err := remote.Size()
	if err != nil {
		return
	}

	s.progress.Update(fmt.Sprintf("Local store %d bytes, remote snapshot %d bytes", localSize, remoteSize))
}
