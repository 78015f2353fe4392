// Package ci provides the check-run model and the transports that publish it.
package ci

import (
	"context"
	"fmt"
	"strings"

	errUtils "github.com/cloudposse/buildcheck/errors"
)

// Transport delivers check runs to a CI backend (GitHub Checks API, a
// dispatched workflow, the local log, ...).
//
//go:generate go run go.uber.org/mock/mockgen@latest -source=provider.go -destination=../reporter/mock_ci_test.go -package=reporter
type Transport interface {
	// Name returns the transport name (e.g., "github", "github-dispatch").
	Name() string

	// CreateCheckRun creates a new check run on a commit.
	CreateCheckRun(ctx context.Context, req *CheckRunRequest) (*CheckRun, error)

	// UpdateCheckRun updates an existing check run.
	UpdateCheckRun(ctx context.Context, req *CheckRunRequest) (*CheckRun, error)
}

// OutputWriter writes CI outputs (environment variables, job summaries, etc.).
type OutputWriter interface {
	// WriteOutput writes a key-value pair to CI outputs (e.g., $GITHUB_OUTPUT).
	WriteOutput(key, value string) error

	// WriteSummary writes content to the job summary (e.g., $GITHUB_STEP_SUMMARY).
	WriteSummary(content string) error
}

// SplitRepository splits "owner/name" into its parts.
func SplitRepository(full string) (owner, repo string, err error) {
	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errUtils.MarkConfig(fmt.Errorf("%w: %q", errUtils.ErrMissingRepository, full))
	}
	return parts[0], parts[1], nil
}
