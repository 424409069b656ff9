package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/sync"
	"github.com/MKhiriev/go-note-sync/models"
)

const storedSnapshotName = "snapshot.db"

// snapshotService keeps the authoritative snapshot as one file on disk.
// Writes go through a temp file and a rename, so a concurrent download
// never observes a half-written snapshot.
type snapshotService struct {
	dir    string
	logger *logger.Logger
}

func NewSnapshotService(dir string, log *logger.Logger) (SnapshotService, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot service: directory is not set")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("snapshot service: error creating directory: %w", err)
	}

	return &snapshotService{dir: dir, logger: log}, nil
}

func (s *snapshotService) path() string {
	return filepath.Join(s.dir, storedSnapshotName)
}

// Save atomically replaces the stored snapshot with the content of r and
// returns the metadata of the new snapshot.
func (s *snapshotService) Save(ctx context.Context, r io.Reader) (models.SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return models.SnapshotInfo{}, err
	}

	tmp, err := os.CreateTemp(s.dir, storedSnapshotName+".tmp-*")
	if err != nil {
		return models.SnapshotInfo{}, fmt.Errorf("snapshot service: error creating temp file: %w", err)
	}

	if _, err = io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return models.SnapshotInfo{}, fmt.Errorf("snapshot service: error writing snapshot: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return models.SnapshotInfo{}, fmt.Errorf("snapshot service: error flushing snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return models.SnapshotInfo{}, fmt.Errorf("snapshot service: error closing snapshot: %w", err)
	}

	if err = os.Rename(tmp.Name(), s.path()); err != nil {
		os.Remove(tmp.Name())
		return models.SnapshotInfo{}, fmt.Errorf("snapshot service: error publishing snapshot: %w", err)
	}

	info, err := s.Info(ctx)
	if err != nil {
		return models.SnapshotInfo{}, err
	}

	s.logger.Info().Str("func", "snapshotService.Save").Int64("size", info.Size).Msg("snapshot stored")
	return info, nil
}

// Open returns a reader over the stored snapshot and its metadata.
func (s *snapshotService) Open(ctx context.Context) (io.ReadCloser, models.SnapshotInfo, error) {
	info, err := s.Info(ctx)
	if err != nil {
		return nil, models.SnapshotInfo{}, err
	}

	f, err := os.Open(s.path())
	if os.IsNotExist(err) {
		return nil, models.SnapshotInfo{}, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, models.SnapshotInfo{}, fmt.Errorf("snapshot service: error opening snapshot: %w", err)
	}

	return f, info, nil
}

// Info describes the stored snapshot: size, modification time, and content
// digest.
func (s *snapshotService) Info(ctx context.Context) (models.SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return models.SnapshotInfo{}, err
	}

	stat, err := os.Stat(s.path())
	if os.IsNotExist(err) {
		return models.SnapshotInfo{}, ErrSnapshotNotFound
	}
	if err != nil {
		return models.SnapshotInfo{}, fmt.Errorf("snapshot service: error reading snapshot info: %w", err)
	}

	digest, err := sync.FileDigest(s.path())
	if err != nil {
		return models.SnapshotInfo{}, fmt.Errorf("snapshot service: error computing digest: %w", err)
	}

	return models.SnapshotInfo{
		Exists:    true,
		Digest:    digest,
		Size:      stat.Size(),
		UpdatedAt: stat.ModTime().UTC(),
	}, nil
}
