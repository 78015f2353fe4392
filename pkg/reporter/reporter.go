// Package reporter publishes classified diagnostics as check runs.
package reporter

import (
	"context"
	"fmt"
	"time"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/ci"
	"github.com/cloudposse/buildcheck/pkg/diagnostics"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/retry"
	"github.com/cloudposse/buildcheck/pkg/schema"
	"github.com/cloudposse/buildcheck/pkg/summary"
)

const (
	successTitle = "Unity Build Succeeded"
	failureTitle = "Unity Build Failed"
	runningTitle = "Unity Build In Progress"
)

// BuildCheckName returns the name of the check run tracking build buildID.
func BuildCheckName(buildID string) string {
	return fmt.Sprintf("Unity Build (%s)", buildID)
}

// CheckName returns the default check run name for sev.
func CheckName(sev diagnostics.Severity) string {
	return fmt.Sprintf("Unity Build %s Validation", sev)
}

// Title returns the check run title for a report of count diagnostics.
func Title(sev diagnostics.Severity, count int) string {
	if count == 0 {
		return successTitle
	}
	return fmt.Sprintf("Unity Build %ss Detected", sev)
}

// Config identifies where check runs are published and what is reported.
type Config struct {
	Reporting diagnostics.ReportingConfig
	Owner     string
	Repo      string
	Retry     schema.RetryConfig
}

// Reporter renders diagnostics and delivers them through a transport.
type Reporter struct {
	config    Config
	transport ci.Transport
	output    ci.OutputWriter
	executor  *retry.Executor
	now       func() time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithOutputWriter sets the writer receiving the error step summary.
func WithOutputWriter(w ci.OutputWriter) Option {
	return func(r *Reporter) {
		r.output = w
	}
}

// WithClock overrides the time source used for check run timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// New creates a reporter. A zero MaxAttempts uses retry.DefaultMaxAttempts.
func New(cfg Config, transport ci.Transport, opts ...Option) *Reporter {
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = retry.DefaultMaxAttempts
	}

	r := &Reporter{
		config:    cfg,
		transport: transport,
		output:    &ci.NoopOutputWriter{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.executor = retry.New(cfg.Retry, retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		log.Warn("Check run delivery failed, retrying", "attempt", attempt, "delay", delay, "error", err)
	}))
	return r
}

// Report publishes diags of sev on top of state and returns the new state.
// A run is created when state has no ID and updated otherwise. On error the
// returned state is the one passed in.
func (r *Reporter) Report(ctx context.Context, state ci.CheckRunState, diags []diagnostics.Diagnostic, sev diagnostics.Severity, headSHA string) (ci.CheckRunState, error) {
	if !r.config.Reporting.Enabled(sev) {
		log.Debug("Reporting disabled", "severity", sev)
		return state, nil
	}

	text := summary.Render(diags, sev)
	if sev == diagnostics.SeverityError {
		if err := r.output.WriteSummary(text); err != nil {
			log.Warn("Failed to write step summary", "error", err)
		}
	}

	conclusion := ci.CheckRunConclusionSuccess
	if len(diags) > 0 {
		conclusion = ci.CheckRunConclusionFailure
	}
	next := state
	if next.Name == "" {
		next.Name = CheckName(sev)
	}

	next = next.Apply(ci.CheckRunUpdate{
		Status:     ci.CheckRunStatusCompleted,
		Conclusion: conclusion,
		Title:      Title(sev, len(diags)),
		Summary:    summary.CountLine(diags, sev),
		Text:       text,
	}, r.now())

	next, err := r.publish(ctx, next, headSHA)
	if err != nil {
		return state, errUtils.Build(err).
			WithContext("severity", string(sev)).
			WithContext("transport", r.transport.Name()).
			WithContext("check_run", next.Name).
			WithHint("Check the job token permissions (checks: write) or enable check.async for sandboxed jobs").
			Err()
	}

	log.Info("Reported check run", "name", next.Name, "id", next.ID, "severity", sev, "count", len(diags), "conclusion", next.Conclusion)
	return next, nil
}

// Start marks the build run in progress, creating it when state has no ID.
// On error the returned state is the one passed in.
func (r *Reporter) Start(ctx context.Context, state ci.CheckRunState, headSHA string) (ci.CheckRunState, error) {
	next := state.Apply(ci.CheckRunUpdate{
		Status: ci.CheckRunStatusInProgress,
		Title:  runningTitle,
	}, r.now())

	next, err := r.publish(ctx, next, headSHA)
	if err != nil {
		return state, errUtils.Build(err).
			WithContext("transport", r.transport.Name()).
			WithContext("check_run", next.Name).
			Err()
	}

	log.Info("Started build check run", "name", next.Name, "id", next.ID)
	return next, nil
}

// Finish completes the build run with the outcome of the build's exit code.
// A conclusion already recorded on state is kept when it is a failure.
func (r *Reporter) Finish(ctx context.Context, state ci.CheckRunState, exitCode int, headSHA string) (ci.CheckRunState, error) {
	update := ci.CheckRunUpdate{
		Status:     ci.CheckRunStatusCompleted,
		Conclusion: ci.CheckRunConclusionSuccess,
		Title:      successTitle,
		Summary:    fmt.Sprintf("Build exited with code %d.", exitCode),
	}
	if exitCode != 0 {
		update.Conclusion = ci.CheckRunConclusionFailure
		update.Title = failureTitle
	}
	next := state.Apply(update, r.now())

	next, err := r.publish(ctx, next, headSHA)
	if err != nil {
		return state, errUtils.Build(err).
			WithContext("transport", r.transport.Name()).
			WithContext("check_run", next.Name).
			WithContext("exit_code", exitCode).
			Err()
	}

	log.Info("Finished build check run", "name", next.Name, "id", next.ID, "conclusion", next.Conclusion)
	return next, nil
}

// publish delivers state and records the identity the transport assigned.
func (r *Reporter) publish(ctx context.Context, state ci.CheckRunState, headSHA string) (ci.CheckRunState, error) {
	run, err := r.deliver(ctx, state.Request(r.config.Owner, r.config.Repo, headSHA))
	if err != nil {
		return state, err
	}
	return state.Acknowledge(run), nil
}

// deliver sends req through the transport with bounded retries.
// Configuration errors fail on the first attempt.
func (r *Reporter) deliver(ctx context.Context, req *ci.CheckRunRequest) (*ci.CheckRun, error) {
	var run *ci.CheckRun
	attempts := 0

	err := r.executor.ExecuteWithPredicate(ctx, func() error {
		attempts++
		var err error
		if req.IsUpdate() {
			run, err = r.transport.UpdateCheckRun(ctx, req)
		} else {
			run, err = r.transport.CreateCheckRun(ctx, req)
		}
		return err
	}, func(err error) bool {
		return !errUtils.IsConfigError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d attempt(s): %w", errUtils.ErrCheckRunDeliveryFailed, attempts, err)
	}
	return run, nil
}
