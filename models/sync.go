package models

// SyncDirection selects which transport side effects a sync call is allowed
// to perform. The merge itself always runs; direction gates upload/download
// decisions only.
type SyncDirection string

const (
	// SyncPull requires an existing remote snapshot and only brings remote
	// changes into the local store.
	SyncPull SyncDirection = "pull"

	// SyncPush sends the merged snapshot to the backend unconditionally.
	SyncPush SyncDirection = "push"

	// SyncBoth performs a full bidirectional sync. This is the default.
	SyncBoth SyncDirection = "both"
)

// MergeStats is the outcome of one merge invocation, produced once per sync
// call by the merge collaborator and read-only afterward.
//
// LocalChanges and RemoteChanges count rows written into the local and remote
// stores respectively; they are the primary change signal the sync protocol
// trusts. NotesMerged and NotesDeleted feed the user-facing summary only.
type MergeStats struct {
	// LocalChanges is the number of rows the merge wrote into the local store.
	LocalChanges int `json:"local_changes"`

	// RemoteChanges is the number of rows the merge wrote into the remote store.
	RemoteChanges int `json:"remote_changes"`

	// NotesMerged is the number of notes inserted or updated on either side.
	NotesMerged int `json:"notes_merged"`

	// NotesDeleted is the number of note deletions propagated between sides.
	NotesDeleted int `json:"notes_deleted"`
}

// SyncResult is the outcome of one successful sync call. It is constructed
// once at the end of the call and never mutated.
type SyncResult struct {
	// Uploaded reports whether the merged snapshot was sent to the backend.
	Uploaded bool `json:"uploaded"`

	// Downloaded reports whether remote changes reached the local store,
	// either through the merge or through the digest fallback replace.
	Downloaded bool `json:"downloaded"`

	// Message is a stable human-readable summary of the outcome.
	Message string `json:"message"`

	// MergedNotes mirrors MergeStats.NotesMerged.
	MergedNotes int `json:"merged_notes"`

	// DeletedNotes mirrors MergeStats.NotesDeleted.
	DeletedNotes int `json:"deleted_notes"`

	// LocalChanges mirrors MergeStats.LocalChanges.
	LocalChanges int `json:"local_changes"`

	// RemoteChanges mirrors MergeStats.RemoteChanges.
	RemoteChanges int `json:"remote_changes"`
}
