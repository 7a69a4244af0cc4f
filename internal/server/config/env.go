package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays values from environment variables named in the struct
// tags. Unset variables leave the current value in place.
func parseEnv(cfg *Config) error {
	return env.Parse(cfg)
}
