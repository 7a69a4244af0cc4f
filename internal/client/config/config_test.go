package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Empty(t, c.Token)
}

func TestLoadConfig(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_url":      "http://json:1",
		"request_timeout": "3s",
		"token":           "from-json",
	})

	tests := []struct {
		name     string
		args     []string
		expected *Config
		rest     []string
	}{
		{
			name:     "defaults",
			args:     []string{"users"},
			expected: &Config{ServerURL: "http://127.0.0.1:8080", RequestTimeout: 10 * time.Second},
			rest:     []string{"users"},
		},
		{
			name:     "flags",
			args:     []string{"-a", "http://flag:2", "-t", "1s", "user", "42"},
			expected: &Config{ServerURL: "http://flag:2", RequestTimeout: time.Second},
			rest:     []string{"user", "42"},
		},
		{
			name:     "json",
			args:     []string{"-c", path, "login"},
			expected: &Config{ServerURL: "http://json:1", RequestTimeout: 3 * time.Second, Token: "from-json"},
			rest:     []string{"login"},
		},
		{
			name:     "flags beat json",
			args:     []string{"-config", path, "-a", "http://flag:2", "-token", "flagtok"},
			expected: &Config{ServerURL: "http://flag:2", RequestTimeout: 3 * time.Second, Token: "flagtok"},
			rest:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, rest, err := LoadConfig(tt.args)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	_, _, err := LoadConfig([]string{"-t", "abc"})
	assert.Error(t, err)

	_, _, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "json config")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0o600))
	_, _, err = LoadConfig([]string{"-c", bad})
	assert.ErrorContains(t, err, "json config")
}
