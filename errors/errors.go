package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Configuration errors. These are never retried.
var (
	// ErrCheckRunConfig marks every check-run error caused by configuration rather than transport.
	ErrCheckRunConfig = errors.New("check run configuration error")

	ErrAsyncWorkflowNotFound  = errors.New("async checks workflow not found")
	ErrAsyncCreateUnsupported = errors.New("async checks workflow only supports update mode")
	ErrMissingRepository      = errors.New("repository owner and name are required")
	ErrMissingToken           = errors.New("github token is required")
	ErrInvalidPattern         = errors.New("invalid diagnostic pattern")
	ErrInvalidSeverity        = errors.New("invalid severity")
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrTransportNotFound      = errors.New("check run transport not registered")
	ErrWorkflowNotFound       = errors.New("workflow not found")
)

// Transient delivery errors.
var (
	ErrCheckRunCreateFailed     = errors.New("failed to create check run")
	ErrCheckRunUpdateFailed     = errors.New("failed to update check run")
	ErrCheckRunUnexpectedStatus = errors.New("unexpected check run response status")
	ErrWorkflowListFailed       = errors.New("failed to list repository workflows")
	ErrWorkflowDispatchFailed   = errors.New("failed to dispatch workflow")
	ErrCheckRunPayloadEncode    = errors.New("failed to encode check run payload")
)

// Pipeline errors.
var (
	// ErrCheckRunDeliveryFailed is returned once every delivery attempt has failed.
	ErrCheckRunDeliveryFailed     = errors.New("check run delivery failed")
	ErrBuildLogMissing            = errors.New("build log does not exist")
	ErrBuildLogRead               = errors.New("failed to read build log")
	ErrLogPathAllocation          = errors.New("failed to check build log path")
	ErrLogPathAllocationExhausted = errors.New("could not allocate a unique build log path")
	ErrBuildCommandMissing        = errors.New("no build command configured")
	ErrBuildCommandParse          = errors.New("failed to parse build command")
	ErrBuildCommandStart          = errors.New("failed to start build command")
	ErrStepSummaryWrite           = errors.New("failed to write step summary")
	ErrInvalidLogLevel            = errors.New("invalid log level")
)

// ExitCodeError carries the exit code of an external process so it can be
// propagated unchanged to the caller's own exit code.
type ExitCodeError struct {
	Code int
}

func (e ExitCodeError) Error() string {
	return fmt.Sprintf("subcommand exited with code %d", e.Code)
}

// IsConfigError reports whether err is a configuration error that must not be retried.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrCheckRunConfig)
}

// MarkConfig wraps err so that it is also recognized as ErrCheckRunConfig.
func MarkConfig(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrCheckRunConfig, err)
}
