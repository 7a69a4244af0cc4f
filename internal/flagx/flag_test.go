package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-a", ":8080", "-d", "postgres://x"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", ":8080"},
		},
		{
			name:         "equals form",
			args:         []string{"--config=server.json", "-a", ":8080"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=server.json"},
		},
		{
			name:         "order preserved across flags",
			args:         []string{"-d", "dsn", "-x", "1", "-a", ":9"},
			allowedFlags: []string{"-a", "-d"},
			want:         []string{"-d", "dsn", "-a", ":9"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"login", "-x", "1", "--y=2"},
			allowedFlags: []string{"-a"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-a"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-a", "-d", "dsn"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a"},
		},
		{
			name:         "empty",
			args:         []string{},
			allowedFlags: []string{"-a"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	assert.Equal(t, "a.json", JsonConfigFlags([]string{"-c", "a.json", "-a", ":1"}))
	assert.Equal(t, "b.json", JsonConfigFlags([]string{"-config=b.json"}))
	assert.Equal(t, "", JsonConfigFlags([]string{"-a", ":1"}))
	assert.Equal(t, "", JsonConfigFlags(nil))
}
