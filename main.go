package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudposse/buildcheck/cmd"
	errUtils "github.com/cloudposse/buildcheck/errors"
	log "github.com/cloudposse/buildcheck/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// Cancel the build on the first signal and exit with 128 + signal number on the second.
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Warn("Received signal, stopping build", "signal", sig)
		cancel()

		sig = <-sigChan
		cmd.Cleanup()
		if s, ok := sig.(syscall.Signal); ok {
			errUtils.OsExit(128 + int(s))
		}
		errUtils.OsExit(130)
	}()

	code := run(ctx)
	cancel()
	errUtils.OsExit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context) int {
	defer cmd.Cleanup()

	err := cmd.Execute(ctx)
	if err == nil {
		return 0
	}

	// A failing build already wrote its own output.
	var buildExit errUtils.ExitCodeError
	if !errors.As(err, &buildExit) {
		errUtils.CaptureError(err)
		errUtils.PrintError(err)
	}

	exitCode := errUtils.GetExitCode(err)
	log.Debug("Exiting with exit code", "code", exitCode)
	return exitCode
}
