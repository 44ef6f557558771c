// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountd/internal/cryptox"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the accountd server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP/JSON endpoint.
//   - DatabaseDSN: SQLite file path, or a postgres:// URL.
//   - PasswordHashScheme: "bcrypt" or "sha256".
//   - BcryptCost: work factor when the scheme is bcrypt.
//   - LogLevel: debug, info, warn or error.
//   - ShutdownTimeout: how long in-flight requests may run after a stop signal.
type Config struct {
	EndpointAddrHTTP   string        `env:"ACCOUNTD_ADDR"`
	DatabaseDSN        string        `env:"ACCOUNTD_DATABASE_DSN"`
	PasswordHashScheme string        `env:"ACCOUNTD_HASH_SCHEME"`
	BcryptCost         int           `env:"ACCOUNTD_BCRYPT_COST"`
	LogLevel           string        `env:"ACCOUNTD_LOG_LEVEL"`
	ShutdownTimeout    time.Duration `env:"ACCOUNTD_SHUTDOWN_TIMEOUT"`
}

// LoadDefaults populates Config with local development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.DatabaseDSN = "./users.db"
	c.PasswordHashScheme = cryptox.SchemeBcrypt
	c.BcryptCost = bcrypt.DefaultCost
	c.LogLevel = "info"
	c.ShutdownTimeout = 5 * time.Second
}

// Validate reports the first setting that cannot be used to start the server.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.EndpointAddrHTTP) == "" {
		return errors.New("config: empty HTTP address")
	}
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return errors.New("config: empty database DSN")
	}
	switch c.PasswordHashScheme {
	case cryptox.SchemeBcrypt:
		if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("config: bcrypt cost %d outside [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case cryptox.SchemeSHA256:
	default:
		return fmt.Errorf("config: unknown password hash scheme %q", c.PasswordHashScheme)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("config: negative shutdown timeout %s", c.ShutdownTimeout)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags. A malformed JSON file or flag panics; the result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
