package config

import (
	"flag"

	"github.com/dmitrijs2005/piiguard/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-b string   database driver: pgx or sqlite
//	-d string   database DSN
//	-j string   JWT HMAC secret
//	-k string   PII encryption secret
//	-w int      bcrypt cost
//	-l string   log level
//
// Other arguments are filtered out first with flagx.FilterArgs so the -c
// config flag does not trip this flag set.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-b", "-d", "-j", "-k", "-w", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDriver, "b", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "j", config.JWTSecret, "JWT secret")
	fs.StringVar(&config.CryptoSecret, "k", config.CryptoSecret, "PII encryption secret")
	fs.IntVar(&config.PasswordHashCost, "w", config.PasswordHashCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug|info|warn|error)")

	return fs.Parse(args)
}
