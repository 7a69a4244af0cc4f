// Package cli is the piiguard command-line client.
//
// One-shot commands:
//
//	piiguard-cli [flags] register
//	piiguard-cli [flags] login
//	piiguard-cli [flags] -token T users
//	piiguard-cli [flags] -token T user <id>
//
// With no command the CLI starts a REPL. The token obtained by "login" is
// kept in memory for later commands in the same session. Passwords are read
// from the terminal without echo.
package cli
