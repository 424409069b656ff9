package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// SetMetadata stores a key/value pair in the sync_metadata table,
// overwriting any previous value for the key.
func (d *DB) SetMetadata(ctx context.Context, key, value string) error {
	query, args, err := sq.Insert("sync_metadata").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building metadata upsert: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error saving metadata %q: %w", key, err)
	}

	return nil
}

// GetMetadata returns the value stored for key. The second return value is
// false when the key has never been set.
func (d *DB) GetMetadata(ctx context.Context, key string) (string, bool, error) {
	query, args, err := sq.Select("value").
		From("sync_metadata").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("error building metadata select: %w", err)
	}

	var value string
	err = d.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading metadata %q: %w", key, err)
	}

	return value, true, nil
}
