package errors

import (
	"os"
)

// OsExit is a variable so tests can intercept process exit.
var OsExit = os.Exit

// PrintError writes the formatted error to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	_, _ = os.Stderr.WriteString(Format(err, DefaultFormatterConfig()) + newline)
}

// Exit exits the program with the specified exit code.
func Exit(exitCode int) {
	OsExit(exitCode)
}
