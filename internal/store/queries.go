package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-note-sync/models"
)

// ListNotebooks returns every notebook ordered by UUID for stable iteration.
func (d *DB) ListNotebooks(ctx context.Context) ([]models.Notebook, error) {
	query, args, err := sq.Select("id", "uuid", "name", "created_at", "updated_at").
		From("notebooks").
		OrderBy("uuid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building notebooks select: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notebooks: %w", err)
	}
	defer rows.Close()

	var notebooks []models.Notebook
	for rows.Next() {
		var nb models.Notebook
		if err = rows.Scan(&nb.ID, &nb.UUID, &nb.Name, &nb.CreatedAt, &nb.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notebook row: %w", err)
		}
		notebooks = append(notebooks, nb)
	}

	return notebooks, rows.Err()
}

// ListNotes returns every note, each carrying its notebook's UUID so that
// rows can be matched across stores.
func (d *DB) ListNotes(ctx context.Context) ([]models.Note, error) {
	query, args, err := sq.Select(
		"notes.id", "notes.uuid", "notebooks.uuid",
		"notes.title", "notes.content", "notes.created_at", "notes.updated_at",
	).
		From("notes").
		Join("notebooks ON notebooks.id = notes.notebook_id").
		OrderBy("notes.uuid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building notes select: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err = rows.Scan(&n.ID, &n.UUID, &n.NotebookUUID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning note row: %w", err)
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

// ListTombstones returns every recorded deletion.
func (d *DB) ListTombstones(ctx context.Context) ([]models.Tombstone, error) {
	query, args, err := sq.Select("uuid", "kind", "deleted_at").
		From("tombstones").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building tombstones select: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing tombstones: %w", err)
	}
	defer rows.Close()

	var tombstones []models.Tombstone
	for rows.Next() {
		var t models.Tombstone
		if err = rows.Scan(&t.UUID, &t.Kind, &t.DeletedAt); err != nil {
			return nil, fmt.Errorf("error scanning tombstone row: %w", err)
		}
		tombstones = append(tombstones, t)
	}

	return tombstones, rows.Err()
}

// UpsertNotebook inserts the notebook or, when a row with the same UUID
// already exists, overwrites its name and updated_at.
func (d *DB) UpsertNotebook(ctx context.Context, nb models.Notebook) error {
	query, args, err := sq.Insert("notebooks").
		Columns("uuid", "name", "created_at", "updated_at").
		Values(nb.UUID, nb.Name, nb.CreatedAt, nb.UpdatedAt).
		Suffix("ON CONFLICT(uuid) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building notebook upsert: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error saving notebook %s: %w", nb.UUID, err)
	}

	return nil
}

// UpsertNote inserts the note or overwrites an existing row with the same
// UUID. The containing notebook must already exist in this store.
func (d *DB) UpsertNote(ctx context.Context, n models.Note) error {
	query, args, err := sq.Insert("notes").
		Columns("uuid", "notebook_id", "title", "content", "created_at", "updated_at").
		Values(
			n.UUID,
			sq.Expr("(SELECT id FROM notebooks WHERE uuid = ?)", n.NotebookUUID),
			n.Title, n.Content, n.CreatedAt, n.UpdatedAt,
		).
		Suffix(`ON CONFLICT(uuid) DO UPDATE SET
			notebook_id = excluded.notebook_id,
			title = excluded.title,
			content = excluded.content,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building note upsert: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error saving note %s: %w", n.UUID, err)
	}

	return nil
}

// DeleteNote removes the note identified by uuid. Deleting an absent note is
// not an error.
func (d *DB) DeleteNote(ctx context.Context, uuid string) error {
	query, args, err := sq.Delete("notes").Where(sq.Eq{"uuid": uuid}).ToSql()
	if err != nil {
		return fmt.Errorf("error building note delete: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error deleting note %s: %w", uuid, err)
	}

	return nil
}

// DeleteNotebook removes the notebook identified by uuid together with every
// note it contains.
func (d *DB) DeleteNotebook(ctx context.Context, uuid string) error {
	if _, err := d.db.ExecContext(ctx,
		"DELETE FROM notes WHERE notebook_id IN (SELECT id FROM notebooks WHERE uuid = ?)", uuid,
	); err != nil {
		return fmt.Errorf("error deleting notes of notebook %s: %w", uuid, err)
	}

	query, args, err := sq.Delete("notebooks").Where(sq.Eq{"uuid": uuid}).ToSql()
	if err != nil {
		return fmt.Errorf("error building notebook delete: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error deleting notebook %s: %w", uuid, err)
	}

	return nil
}

// SaveTombstone records a deletion so it survives future merges.
func (d *DB) SaveTombstone(ctx context.Context, t models.Tombstone) error {
	query, args, err := sq.Insert("tombstones").
		Columns("uuid", "kind", "deleted_at").
		Values(t.UUID, t.Kind, t.DeletedAt).
		Suffix("ON CONFLICT(uuid, kind) DO UPDATE SET deleted_at = excluded.deleted_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building tombstone upsert: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error saving tombstone %s: %w", t.UUID, err)
	}

	return nil
}

// CountNotebooks returns the number of notebooks in the store.
func (d *DB) CountNotebooks(ctx context.Context) (int, error) {
	return d.countRows(ctx, "notebooks")
}

// CountNotes returns the number of notes in the store.
func (d *DB) CountNotes(ctx context.Context) (int, error) {
	return d.countRows(ctx, "notes")
}

func (d *DB) countRows(ctx context.Context, table string) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building count for %s: %w", table, err)
	}

	var count int
	if err = d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}

	return count, nil
}

// LatestNotebook returns the most recently updated notebook. The second
// return value is false when the store has no notebooks.
func (d *DB) LatestNotebook(ctx context.Context) (models.Notebook, bool, error) {
	query, args, err := sq.Select("id", "uuid", "name", "created_at", "updated_at").
		From("notebooks").
		OrderBy("updated_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return models.Notebook{}, false, fmt.Errorf("error building latest notebook select: %w", err)
	}

	var nb models.Notebook
	err = d.db.QueryRowContext(ctx, query, args...).
		Scan(&nb.ID, &nb.UUID, &nb.Name, &nb.CreatedAt, &nb.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notebook{}, false, nil
	}
	if err != nil {
		return models.Notebook{}, false, fmt.Errorf("error reading latest notebook: %w", err)
	}

	return nb, true, nil
}

// LatestNote returns the most recently updated note together with the name
// of its notebook. The second return value is false when the store has no
// notes.
func (d *DB) LatestNote(ctx context.Context) (models.Note, string, bool, error) {
	query, args, err := sq.Select(
		"notes.id", "notes.uuid", "notebooks.uuid",
		"notes.title", "notes.content", "notes.created_at", "notes.updated_at",
		"notebooks.name",
	).
		From("notes").
		Join("notebooks ON notebooks.id = notes.notebook_id").
		OrderBy("notes.updated_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return models.Note{}, "", false, fmt.Errorf("error building latest note select: %w", err)
	}

	var n models.Note
	var notebookName string
	err = d.db.QueryRowContext(ctx, query, args...).
		Scan(&n.ID, &n.UUID, &n.NotebookUUID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt, &notebookName)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, "", false, nil
	}
	if err != nil {
		return models.Note{}, "", false, fmt.Errorf("error reading latest note: %w", err)
	}

	return n, notebookName, true, nil
}
