package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accountd/internal/flagx"
	"github.com/dmitrijs2005/accountd/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations use timex.Duration so both "5s" and integer nanoseconds parse.
// Pointer fields tell an absent key apart from a zero value.
type JsonConfig struct {
	EndpointAddrHTTP   *string         `json:"endpoint_addr_http"`
	DatabaseDSN        *string         `json:"database_dsn"`
	PasswordHashScheme *string         `json:"password_hash_scheme"`
	BcryptCost         *int            `json:"bcrypt_cost"`
	LogLevel           *string         `json:"log_level"`
	ShutdownTimeout    *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag into config. Keys missing from the file keep their current
// values. Without the flag nothing is loaded; an unreadable or invalid file
// panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.PasswordHashScheme != nil {
		config.PasswordHashScheme = *c.PasswordHashScheme
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
