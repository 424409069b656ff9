// Package store implements the SQLite-backed notes database used on both
// sides of a sync: the long-lived local store and the transient store opened
// over a fetched remote snapshot.
//
// The database runs in WAL journal mode. Checkpoint flushes the write-ahead
// log into the main file so that raw reads of the file (digests, uploads)
// reflect every applied write.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/migrations"
)

// sqlite DSN options: WAL journal, foreign keys, busy timeout for the short
// window when two handles touch the same file during ReplaceWith.
const dsnOptions = "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"

// DB is a handle over one notes database file.
//
// The embedded *sql.DB is guarded by mu only for ReplaceWith, which swaps the
// underlying connection. The sync protocol is single-threaded per call, so
// plain method calls never race with each other.
type DB struct {
	mu sync.Mutex
	db *sql.DB

	path   string
	logger *logger.Logger
}

// Open opens (creating if necessary) the notes database file at path.
// The schema is NOT applied here; call EnsureInitialized.
func Open(ctx context.Context, path string, log *logger.Logger) (*DB, error) {
	if err := createDBFileIfNotExists(path); err != nil {
		log.Err(err).Str("func", "store.Open").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+dsnOptions)
	if err != nil {
		log.Err(err).Str("func", "store.Open").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "store.Open").Msg("error connecting database (ping)")
		conn.Close()
		return nil, err
	}
	log.Debug().Str("func", "store.Open").Str("path", path).Msg("connected to database successfully")

	return &DB{
		db:     conn,
		path:   path,
		logger: log,
	}, nil
}

func createDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}

// EnsureInitialized applies all pending schema migrations. Safe to call on a
// freshly created empty file and on an already migrated database.
func (d *DB) EnsureInitialized() error {
	return migrations.Migrate(d.db)
}

// Checkpoint flushes the WAL into the main database file. Content read from
// the file afterward reflects every write applied so far.
func (d *DB) Checkpoint(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		return fmt.Errorf("error checkpointing database: %w", err)
	}
	return nil
}

// Path returns the filesystem path of the database file.
func (d *DB) Path() string {
	return d.path
}

// Size returns the current size of the main database file in bytes.
func (d *DB) Size() (int64, error) {
	info, err := os.Stat(d.path)
	if err != nil {
		return 0, fmt.Errorf("error reading database file size: %w", err)
	}
	return info.Size(), nil
}

// ReplaceWith substitutes the entire database content with the file at
// sourcePath. The connection is closed, the file is overwritten, WAL
// side files are dropped, and the connection is reopened.
func (d *DB) ReplaceWith(ctx context.Context, sourcePath string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.db.Close(); err != nil {
		return fmt.Errorf("error closing database before replace: %w", err)
	}

	if err := copyFile(sourcePath, d.path); err != nil {
		return fmt.Errorf("error replacing database content: %w", err)
	}

	// stale WAL/SHM from the previous incarnation must not be replayed over
	// the new content
	os.Remove(d.path + "-wal")
	os.Remove(d.path + "-shm")

	conn, err := sql.Open("sqlite3", d.path+dsnOptions)
	if err != nil {
		return fmt.Errorf("error reopening database after replace: %w", err)
	}
	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("error reopening database after replace (ping): %w", err)
	}

	d.db = conn
	return nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Sync(); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
