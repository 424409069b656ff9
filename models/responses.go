package models

import "time"

// SnapshotInfo describes the snapshot currently held by the server without
// transferring its content. Returned by the HEAD endpoint via headers and by
// the info endpoint as JSON.
type SnapshotInfo struct {
	// Exists reports whether the server holds a snapshot at all.
	Exists bool `json:"exists"`

	// Digest is the SHA-256 hex fingerprint of the snapshot content.
	// Empty when Exists is false.
	Digest string `json:"digest,omitempty"`

	// Size is the snapshot size in bytes.
	Size int64 `json:"size"`

	// UpdatedAt is when the snapshot was last replaced, UTC.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
