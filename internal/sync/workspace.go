package sync

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-note-sync/internal/logger"
)

// workspace is the scratch area holding the fetched remote snapshot for the
// duration of one sync call. Exactly one call owns it; Release runs on every
// exit path.
type workspace struct {
	dir string

	// File is where the backend materializes the remote snapshot.
	File string
}

func newWorkspace() (*workspace, error) {
	dir, err := os.MkdirTemp("", "notesync-")
	if err != nil {
		return nil, fmt.Errorf("error creating sync workspace: %w", err)
	}

	return &workspace{
		dir:  dir,
		File: filepath.Join(dir, "remote.db"),
	}, nil
}

// Release deletes the snapshot file (and its WAL side files) and then the
// directory. A directory that cannot be removed is logged and tolerated.
func (w *workspace) Release(log *logger.Logger) {
	for _, path := range []string{w.File, w.File + "-wal", w.File + "-shm"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("func", "workspace.Release").Str("path", path).Msg("error removing workspace file")
		}
	}

	if err := os.Remove(w.dir); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("func", "workspace.Release").Str("path", w.dir).Msg("error removing workspace directory")
	}
}
