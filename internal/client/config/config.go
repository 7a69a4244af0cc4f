package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the piiguard CLI.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	Token          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then the JSON file, then flags from args
// (usually os.Args[1:]). It returns the positional arguments that follow the
// flags.
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, nil, fmt.Errorf("json config: %w", err)
	}

	rest, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, fmt.Errorf("flags: %w", err)
	}

	return cfg, rest, nil
}
