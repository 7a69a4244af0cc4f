package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/piiguard/internal/flagx"
	"github.com/dmitrijs2005/piiguard/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "10s" strings and integer nanoseconds. Absent keys keep the current value.
type JsonConfig struct {
	EndpointAddrHTTP    *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC    *string         `json:"endpoint_addr_grpc"`
	DatabaseDriver      *string         `json:"database_driver"`
	DatabaseDSN         *string         `json:"database_dsn"`
	JWTSecret           *string         `json:"jwt_secret"`
	CryptoSecret        *string         `json:"crypto_secret"`
	PasswordHashCost    *int            `json:"password_hash_cost"`
	LogLevel            *string         `json:"log_level"`
	LogFormat           *string         `json:"log_format"`
	HealthCheckInterval *timex.Duration `json:"health_check_interval"`
	ShutdownTimeout     *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config in args, if any, and copies
// the keys it sets into config.
func parseJson(config *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDriver, c.DatabaseDriver)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.JWTSecret, c.JWTSecret)
	setIf(&config.CryptoSecret, c.CryptoSecret)
	setIf(&config.PasswordHashCost, c.PasswordHashCost)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.LogFormat, c.LogFormat)
	if c.HealthCheckInterval != nil {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}

	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
