package models

// Credentials is the login payload the snapshot server authenticates.
// The server is single-user: one login, one bcrypt-hashed password from
// configuration.
type Credentials struct {
	// Login is the account login identifier.
	Login string `json:"login"`

	// Password is the plaintext password presented at login. It is only
	// ever compared against the configured bcrypt hash and never stored.
	Password string `json:"password"`
}
