// Command ecofocus tracks, predicts and reduces a personal carbon footprint.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/ecofocus/internal/cli"
	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/history"
	"github.com/rshade/ecofocus/pkg/version"
)

// Exit codes.
const (
	exitOK = iota
	exitError
	exitNoData
	exitSchema
)

func run(ctx context.Context, args []string) error {
	root := cli.NewRootCmd(version.String())
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// exitCode maps a command error to the process exit status. Commands that
// have no history to work on exit with exitNoData so scripts can tell an
// empty database from a failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, engine.ErrNoHistory):
		return exitNoData
	case errors.Is(err, history.ErrSchemaVersion):
		return exitSchema
	default:
		return exitError
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode(err))
}
