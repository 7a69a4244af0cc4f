package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":    "www.example:9000",
		"endpoint_addr_grpc":    ":9001",
		"database_driver":       "sqlite",
		"database_dsn":          "pii.db",
		"jwt_secret":            "jwt",
		"crypto_secret":         "crypto",
		"password_hash_cost":    11,
		"log_level":             "warn",
		"log_format":            "text",
		"health_check_interval": "30s",
		"shutdown_timeout":      "1m",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, ":9001", cfg.EndpointAddrGRPC)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
		assert.Equal(t, "pii.db", cfg.DatabaseDSN)
		assert.Equal(t, "jwt", cfg.JWTSecret)
		assert.Equal(t, "crypto", cfg.CryptoSecret)
		assert.Equal(t, 11, cfg.PasswordHashCost)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, 30*time.Second, cfg.HealthCheckInterval)
		assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"log_level": "debug"})

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", partial}))

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	})

	t.Run("no config flag, no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234"}
		require.NoError(t, parseJson(cfg, nil))
		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		assert.Error(t, parseJson(&Config{}, []string{"-c", bad}))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})
}
