package config

import (
	"flag"
	"io"
)

// parseFlags populates Config from args and returns the remaining
// positional arguments. -c/-config are accepted here too so they do not
// stop parsing; the file itself is read by parseJson.
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := flag.NewFlagSet("piiguard-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var jsonPath string
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "bearer token")
	fs.StringVar(&jsonPath, "c", "", "path to config file")
	fs.StringVar(&jsonPath, "config", "", "path to config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return fs.Args(), nil
}
