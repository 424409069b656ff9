package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-note-sync/internal/config"
	"github.com/MKhiriev/go-note-sync/internal/logger"
)

const snapshotFileName = "notes-snapshot.db"

// FileBackend keeps the remote snapshot as a single file inside a directory,
// typically one synchronized by an external tool (Dropbox, Syncthing, a
// mounted network share).
type FileBackend struct {
	dir    string
	logger *logger.Logger
}

func NewFileBackend(cfg config.FileBackend, log *logger.Logger) (*FileBackend, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("file backend: directory is not set")
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("file backend: error creating directory: %w", err)
	}

	return &FileBackend{dir: cfg.Dir, logger: log}, nil
}

func (f *FileBackend) snapshotPath() string {
	return filepath.Join(f.dir, snapshotFileName)
}

// Download copies the snapshot file into dest. A missing snapshot is not an
// error: the first sync against an empty directory reports absence.
func (f *FileBackend) Download(ctx context.Context, dest string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	src := f.snapshotPath()
	if _, err := os.Stat(src); os.IsNotExist(err) {
		f.logger.Debug().Str("func", "FileBackend.Download").Str("path", src).Msg("no snapshot yet")
		return false, nil
	}

	if err := copyAtomic(src, dest); err != nil {
		return false, fmt.Errorf("file backend: error downloading snapshot: %w", err)
	}

	return true, nil
}

// Upload replaces the snapshot file with the content of src.
func (f *FileBackend) Upload(ctx context.Context, src string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := copyAtomic(src, f.snapshotPath()); err != nil {
		return fmt.Errorf("file backend: error uploading snapshot: %w", err)
	}

	f.logger.Debug().Str("func", "FileBackend.Upload").Str("path", f.snapshotPath()).Msg("snapshot uploaded")
	return nil
}

// copyAtomic writes to a temp file next to dst and renames it into place so
// a concurrent reader never observes a half-written snapshot.
func copyAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err = io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), dst)
}
