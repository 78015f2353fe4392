package config

import (
	"fmt"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/diagnostics"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/retry"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

// Validate checks cfg and compiles its reporting rules.
func Validate(cfg *schema.Configuration) (diagnostics.ReportingConfig, error) {
	if _, err := log.ParseLogLevel(cfg.Logs.Level); err != nil {
		return diagnostics.ReportingConfig{}, errUtils.Build(err).
			WithHint("Set logs.level or BUILDCHECK_LOGS_LEVEL to one of Trace, Debug, Info, Warning, Error, Off").
			Err()
	}

	if err := validateRetry(cfg.Retry); err != nil {
		return diagnostics.ReportingConfig{}, err
	}

	reporting, err := diagnostics.NewReportingConfig(cfg.Reporting)
	if err != nil {
		return diagnostics.ReportingConfig{}, errUtils.Build(err).
			WithHint("Patterns use Go RE2 syntax; the first capture group becomes the diagnostic message").
			Err()
	}

	if cfg.Check.Enabled && cfg.GitHub.Actions && cfg.GitHub.Repository == "" {
		return diagnostics.ReportingConfig{}, errUtils.Build(errUtils.MarkConfig(errUtils.ErrMissingRepository)).
			WithHint("GITHUB_REPOSITORY is set by GitHub Actions; set github.repository when running elsewhere").
			Err()
	}
	if cfg.Check.Enabled && cfg.GitHub.Actions && cfg.Check.Async && cfg.Check.RunID == 0 {
		return diagnostics.ReportingConfig{}, errUtils.Build(errUtils.MarkConfig(errUtils.ErrAsyncCreateUnsupported)).
			WithContext("workflow", cfg.Check.AsyncWorkflow).
			WithHint("Create the check run beforehand and pass its id with --check-run-id or BUILDCHECK_CHECK_RUN_ID").
			Err()
	}
	return reporting, nil
}

func validateRetry(r schema.RetryConfig) error {
	if r.MaxAttempts < 1 {
		return errUtils.Build(fmt.Errorf("%w: retry.max_attempts must be at least 1, got %d", errUtils.ErrInvalidConfig, r.MaxAttempts)).Err()
	}
	if r.MaxAttempts > retry.DefaultMaxAttempts {
		return errUtils.Build(fmt.Errorf("%w: retry.max_attempts must be at most %d, got %d", errUtils.ErrInvalidConfig, retry.DefaultMaxAttempts, r.MaxAttempts)).
			WithHint("Each severity is delivered with at most one initial attempt and four retries").
			Err()
	}
	switch r.BackoffStrategy {
	case "", schema.BackoffConstant, schema.BackoffLinear, schema.BackoffExponential:
	default:
		return errUtils.Build(fmt.Errorf("%w: unknown retry.backoff_strategy %q", errUtils.ErrInvalidConfig, r.BackoffStrategy)).
			WithHint("Use constant, linear or exponential").
			Err()
	}
	if r.MaxDelay > 0 && r.InitialDelay > r.MaxDelay {
		return errUtils.Build(fmt.Errorf("%w: retry.initial_delay %s exceeds retry.max_delay %s", errUtils.ErrInvalidConfig, r.InitialDelay, r.MaxDelay)).Err()
	}
	return nil
}
