package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/flagx"
	"github.com/dmitrijs2005/tasktracker/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Absent keys
// leave the corresponding Config field untouched, which is why the scalar
// fields that have a meaningful zero value are pointers.
type JsonConfig struct {
	EndpointAddrHTTP     string          `json:"endpoint_addr_http"`
	DatabaseDSN          string          `json:"database_dsn"`
	SecretKey            string          `json:"secret_key"`
	SessionTTL           *timex.Duration `json:"session_ttl"`
	SessionBackend       string          `json:"session_backend"`
	RedisAddr            string          `json:"redis_addr"`
	BcryptCost           *int            `json:"bcrypt_cost"`
	EnforceTaskOwnership *bool           `json:"enforce_task_ownership"`
	LogLevel             string          `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config. Without the
// flag nothing is loaded. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile, _ := flagx.ConfigFileFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.SessionBackend != "" {
		config.SessionBackend = c.SessionBackend
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.EnforceTaskOwnership != nil {
		config.EnforceTaskOwnership = *c.EnforceTaskOwnership
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
