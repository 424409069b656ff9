package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from process environment variables. Lookup names come
// from the `env` and `envPrefix` tags on [StructuredConfig] and its nested
// sections; a value that cannot be converted to the field type is an error.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error parsing env config: %w", err)
	}

	return nil
}
