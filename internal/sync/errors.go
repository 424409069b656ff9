package sync

import "errors"

var (
	// ErrRemoteMissingForPull is returned when a pull-only sync finds no
	// remote snapshot to pull from.
	ErrRemoteMissingForPull = errors.New("pull requested but no remote snapshot exists")

	ErrUnknownDirection = errors.New("unknown sync direction")
)
