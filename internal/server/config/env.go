package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from environment variables. When -env names a
// file it is loaded first and must exist; otherwise a .env in the working
// directory is loaded if present. godotenv never overrides variables that
// are already set, so the real environment wins over the file.
//
//	ADDRESS, DATABASE_DSN, SECRET_KEY, SESSION_TTL (e.g. "24h"),
//	SESSION_BACKEND, REDIS_ADDR, BCRYPT_COST, ENFORCE_TASK_OWNERSHIP, LOG_LEVEL
func parseEnv(config *Config) {
	_, envFile := flagx.ConfigFileFlags()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	lookupString("ADDRESS", &config.EndpointAddrHTTP)
	lookupString("DATABASE_DSN", &config.DatabaseDSN)
	lookupString("SECRET_KEY", &config.SecretKey)
	lookupString("SESSION_BACKEND", &config.SessionBackend)
	lookupString("REDIS_ADDR", &config.RedisAddr)
	lookupString("LOG_LEVEL", &config.LogLevel)

	if v, ok := os.LookupEnv("SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("SESSION_TTL: %w", err))
		}
		config.SessionTTL = d
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("BCRYPT_COST: %w", err))
		}
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv("ENFORCE_TASK_OWNERSHIP"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("ENFORCE_TASK_OWNERSHIP: %w", err))
		}
		config.EnforceTaskOwnership = b
	}
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
