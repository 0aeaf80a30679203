// Command steamload imports a Steam games CSV export into SQLite or Postgres.
//
// Exit codes:
//
//	0  success
//	1  import failed
//	2  usage error or invalid configuration
package main

import (
	"errors"
	"fmt"
	"os"

	"steamload/internal/config"
	"steamload/internal/etl"

	// register all backends with the storage factory.
	_ "steamload/internal/storage/all"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errUsage marks command-line and configuration mistakes.
var errUsage = errors.New("usage")

func main() {
	root := newRootCmd(app{lookup: os.LookupEnv, dotenv: true})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "steamload: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error onto the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage),
		errors.Is(err, etl.ErrInvalidConfig),
		errors.Is(err, config.ErrConfigNotFound):
		return exitUsage
	default:
		return exitFailure
	}
}
