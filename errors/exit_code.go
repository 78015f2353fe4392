package errors

import (
	"os/exec"

	"github.com/cockroachdb/errors"
)

// exitCoder wraps an error with the process exit code it should produce.
type exitCoder struct {
	cause error
	code  int
}

func (e *exitCoder) Error() string { return e.cause.Error() }

func (e *exitCoder) Unwrap() error { return e.cause }

// ExitCode returns the attached exit code.
func (e *exitCoder) ExitCode() int { return e.code }

// WithExitCode attaches an exit code to err. Nil stays nil.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitCoder{cause: err, code: code}
}

// GetExitCode extracts the exit code from an error chain.
//
// Lookup order:
//  1. ExitCodeError from the build runner.
//  2. exitCoder attached via WithExitCode.
//  3. exec.ExitError.
//  4. Default to 1.
//
// A nil error yields 0.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitCodeErr ExitCodeError
	if errors.As(err, &exitCodeErr) {
		return exitCodeErr.Code
	}

	var ec *exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return 1
}
