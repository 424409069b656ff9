package models

import "time"

// Notebook groups notes under a user-visible name. Notebooks are matched
// across stores by UUID, never by database id.
type Notebook struct {
	// ID is the internal row id, meaningful only within one store file.
	ID int64 `json:"-"`

	// UUID is the stable cross-store identity of the notebook.
	UUID string `json:"uuid"`

	// Name is the display name of the notebook.
	Name string `json:"name"`

	// CreatedAt is when the notebook was first created, UTC.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the last modification time, UTC. Last-write-wins merge
	// compares this field.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Notebook model.
func (n Notebook) TableName() string {
	return "notebooks"
}

// Note is a single note body inside a notebook.
type Note struct {
	// ID is the internal row id, meaningful only within one store file.
	ID int64 `json:"-"`

	// UUID is the stable cross-store identity of the note.
	UUID string `json:"uuid"`

	// NotebookUUID identifies the containing notebook across stores.
	NotebookUUID string `json:"notebook_uuid"`

	// Title is the note title shown in listings.
	Title string `json:"title"`

	// Content is the full note body.
	Content string `json:"content"`

	// CreatedAt is when the note was first created, UTC.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the last modification time, UTC. Last-write-wins merge
	// compares this field.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Note model.
func (n Note) TableName() string {
	return "notes"
}

// Tombstone kinds stored in the tombstones table.
const (
	TombstoneNote     = "note"
	TombstoneNotebook = "notebook"
)

// Tombstone records a deletion so it can be propagated to the other side of
// a sync instead of being resurrected by a merge.
type Tombstone struct {
	// UUID is the identity of the deleted entity.
	UUID string `json:"uuid"`

	// Kind is TombstoneNote or TombstoneNotebook.
	Kind string `json:"kind"`

	// DeletedAt is when the deletion happened, UTC.
	DeletedAt time.Time `json:"deleted_at"`
}
