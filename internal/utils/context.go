// Package utils provides small helpers shared across the application:
// type-safe context keys, JWT generation and validation, and HTTP response
// writing.
package utils

import (
	"context"
)

// contextKey is a private type for context keys. A dedicated type prevents
// collisions with string-based keys from other packages.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// LoginCtxKey is the key under which the authenticated account login is
// stored in the request context.
var LoginCtxKey = contextKey("login")

// GetLoginFromContext retrieves the authenticated login from the context.
// The second return value is false when no login is stored or it has an
// unexpected type.
func GetLoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(LoginCtxKey).(string)
	return login, ok
}
