// Package config loads runtime configuration for the piiguard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the piiguard HTTP API
//	-t duration   per-request timeout (e.g. "5s")
//	-token string bearer token for one-shot users/user commands
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "token": "..."
//	}
//
// Whatever is left after the flags is the command to run.
package config
