package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "30",
			"-b", "redis", "-r", "redis:6379", "-k", "12", "-o", "-l", "debug",
		}, expected: &Config{
			EndpointAddrHTTP:     "127.0.0.1:9090",
			DatabaseDSN:          "db",
			SecretKey:            "secret",
			SessionTTL:           30 * time.Minute,
			SessionBackend:       "redis",
			RedisAddr:            "redis:6379",
			BcryptCost:           12,
			EnforceTaskOwnership: true,
			LogLevel:             "debug",
		}},
		{name: "ttl untouched without -t", args: []string{"cmd", "-a", ":1"},
			expected: &Config{EndpointAddrHTTP: ":1", SessionTTL: 90 * time.Second}},
		{name: "bad int", args: []string{"cmd", "-k", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{SessionTTL: 90 * time.Second}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
