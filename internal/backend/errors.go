package backend

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown backend kind")
	ErrRemoteMissing  = errors.New("remote snapshot does not exist")
	ErrUnauthorized   = errors.New("backend rejected credentials")
	ErrBadRequest     = errors.New("backend rejected request")
	ErrServerFailure  = errors.New("backend server failure")
)
