package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays ACCOUNTD_* environment variables onto config. Unset
// variables leave the current value alone.
func parseEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}
