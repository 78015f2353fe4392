// Package pipeline wires one CI job: allocate a log path, run the build,
// classify its log and report the result.
package pipeline

import (
	"context"
	"errors"

	"github.com/spf13/afero"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/ci"
	"github.com/cloudposse/buildcheck/pkg/diagnostics"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/logpath"
	"github.com/cloudposse/buildcheck/pkg/reporter"
	"github.com/cloudposse/buildcheck/pkg/runner"
)

// CheckReporter publishes the diagnostics of one severity.
type CheckReporter interface {
	Report(ctx context.Context, state ci.CheckRunState, diags []diagnostics.Diagnostic, sev diagnostics.Severity, headSHA string) (ci.CheckRunState, error)
}

// BuildTracker publishes the lifecycle of the build itself.
type BuildTracker interface {
	Start(ctx context.Context, state ci.CheckRunState, headSHA string) (ci.CheckRunState, error)
	Finish(ctx context.Context, state ci.CheckRunState, exitCode int, headSHA string) (ci.CheckRunState, error)
}

// CompletionHook runs once a build has finished and its log was handled.
type CompletionHook func(ctx context.Context, res *Result)

// Config holds the per-job settings of a pipeline.
type Config struct {
	JobKey  string
	HeadSHA string
	// BuildID identifies the build to the build check run and completion hooks.
	BuildID string
	// SharedRunID, when set, is an existing check run updated by every
	// severity instead of each severity creating its own.
	SharedRunID   int64
	SharedRunName string
}

// Result describes one pipeline run.
type Result struct {
	LogPath       string
	BuildExitCode int
	// ExitCode is the process exit code: the build's when non-zero, else 1
	// after a delivery failure.
	ExitCode    int
	LogMissing  bool
	Diagnostics map[diagnostics.Severity][]diagnostics.Diagnostic
	CheckRuns   []ci.CheckRunState
	// BuildRun is the run tracking the build; zero when untracked.
	BuildRun    ci.CheckRunState
	DeliveryErr error
}

// Pipeline runs the build analysis for one job.
type Pipeline struct {
	config     Config
	classifier *diagnostics.Classifier
	reporter   CheckReporter
	allocator  *logpath.Allocator
	runner     runner.Runner
	output     ci.OutputWriter
	fs         afero.Fs
	tracker    BuildTracker
	hooks      []CompletionHook
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAllocator sets the log path allocator.
func WithAllocator(a *logpath.Allocator) Option {
	return func(p *Pipeline) {
		p.allocator = a
	}
}

// WithRunner sets the build runner.
func WithRunner(r runner.Runner) Option {
	return func(p *Pipeline) {
		p.runner = r
	}
}

// WithFs sets the filesystem the log is read from and removed on.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) {
		p.fs = fs
	}
}

// WithOutputWriter sets the writer for step outputs.
func WithOutputWriter(w ci.OutputWriter) Option {
	return func(p *Pipeline) {
		p.output = w
	}
}

// WithBuildTracker publishes an in-progress check run before the build
// starts and completes it afterwards.
func WithBuildTracker(t BuildTracker) Option {
	return func(p *Pipeline) {
		p.tracker = t
	}
}

// WithCompletionHook adds a hook run at the end of every build.
func WithCompletionHook(h CompletionHook) Option {
	return func(p *Pipeline) {
		p.hooks = append(p.hooks, h)
	}
}

// New creates a pipeline.
func New(cfg Config, classifier *diagnostics.Classifier, rep CheckReporter, opts ...Option) *Pipeline {
	p := &Pipeline{
		config:     cfg,
		classifier: classifier,
		reporter:   rep,
		output:     &ci.NoopOutputWriter{},
		fs:         afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.allocator == nil {
		p.allocator = logpath.New(".", logpath.WithFs(p.fs))
	}
	return p
}

// Run allocates a log path, runs the build, then reads, deletes, classifies
// and reports its log. The returned error covers setup failures only;
// delivery failures are recorded in Result.DeliveryErr and Result.ExitCode.
// Step outputs are written and completion hooks run once the build ran.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.runner == nil {
		return &Result{ExitCode: 1}, errUtils.ErrBuildCommandMissing
	}

	path, err := p.allocator.Allocate(p.config.JobKey)
	if err != nil {
		return &Result{ExitCode: 1}, err
	}

	build, tracked := p.startBuild(ctx)
	res, err := p.runBuild(ctx, path, build)
	if tracked {
		p.finishBuild(ctx, res, build)
	}
	p.writeOutputs(res)
	for _, hook := range p.hooks {
		hook(ctx, res)
	}
	return res, err
}

func (p *Pipeline) runBuild(ctx context.Context, path string, build ci.CheckRunState) (*Result, error) {
	code, err := p.runner.Run(ctx, path)
	if err != nil {
		p.removeLog(path)
		return &Result{LogPath: path, BuildExitCode: code, ExitCode: max(code, 1)}, err
	}
	log.Info("Build finished", "exit_code", code, "log", path)

	text, err := diagnostics.ReadLog(p.fs, path)
	if errors.Is(err, errUtils.ErrBuildLogMissing) {
		log.Error("Build log not found, skipping analysis", "path", path)
		return &Result{LogPath: path, BuildExitCode: code, ExitCode: code, LogMissing: true}, nil
	}
	if err != nil {
		p.removeLog(path)
		return &Result{LogPath: path, BuildExitCode: code, ExitCode: max(code, 1)}, err
	}
	p.removeLog(path)

	seed := p.sharedState()
	if p.config.SharedRunID != 0 && build.Created() {
		seed = build
	}
	res := p.analyze(ctx, text, seed)
	res.LogPath = path
	res.BuildExitCode = code
	res.ExitCode = foldExitCode(code, res.DeliveryErr)
	return res, nil
}

// startBuild marks the build run in progress. A shared run is reused; any
// other job gets its own run named after the build. A failure is logged and
// leaves the build untracked.
func (p *Pipeline) startBuild(ctx context.Context) (ci.CheckRunState, bool) {
	if p.tracker == nil {
		return ci.CheckRunState{}, false
	}

	state := p.sharedState()
	if state.Name == "" {
		state.Name = reporter.BuildCheckName(p.config.BuildID)
	}
	state.ExternalID = p.config.BuildID

	next, err := p.tracker.Start(ctx, state, p.config.HeadSHA)
	if err != nil {
		log.Warn("Failed to start build check run, continuing without it", "error", err)
		return ci.CheckRunState{}, false
	}
	return next, true
}

// finishBuild completes the build run. A shared run continues from the state
// the severity reports left it in. A failure counts as a delivery failure.
func (p *Pipeline) finishBuild(ctx context.Context, res *Result, build ci.CheckRunState) {
	state := build
	if p.config.SharedRunID != 0 && len(res.CheckRuns) == 1 {
		state = res.CheckRuns[0]
	}

	next, err := p.tracker.Finish(ctx, state, res.BuildExitCode, p.config.HeadSHA)
	if err != nil {
		log.Error("Failed to finish build check run", "error", err)
		if res.DeliveryErr == nil {
			res.DeliveryErr = err
		}
		res.ExitCode = max(res.ExitCode, foldExitCode(res.BuildExitCode, res.DeliveryErr))
		res.BuildRun = state
		return
	}

	res.BuildRun = next
	if p.config.SharedRunID != 0 {
		res.CheckRuns = []ci.CheckRunState{next}
	}
}

// Analyze classifies and reports an existing log without running a build or
// removing the file.
func (p *Pipeline) Analyze(ctx context.Context, path string) (*Result, error) {
	text, err := diagnostics.ReadLog(p.fs, path)
	if err != nil {
		return &Result{LogPath: path, ExitCode: 1, LogMissing: errors.Is(err, errUtils.ErrBuildLogMissing)}, err
	}

	res := p.analyze(ctx, text, p.sharedState())
	res.LogPath = path
	res.ExitCode = foldExitCode(0, res.DeliveryErr)
	return res, nil
}

// sharedState is the starting state of the shared run, or the zero state.
func (p *Pipeline) sharedState() ci.CheckRunState {
	return ci.CheckRunState{ID: p.config.SharedRunID, Name: p.config.SharedRunName}
}

// analyze parses text and reports errors, then warnings, on top of seed when
// the run is shared. Reporting stops at the first delivery failure.
func (p *Pipeline) analyze(ctx context.Context, text string, seed ci.CheckRunState) *Result {
	res := &Result{Diagnostics: make(map[diagnostics.Severity][]diagnostics.Diagnostic, len(diagnostics.Severities))}
	for _, sev := range diagnostics.Severities {
		res.Diagnostics[sev] = p.classifier.Parse(text, sev)
	}

	shared := p.config.SharedRunID != 0
	state := seed

	for _, sev := range diagnostics.Severities {
		if !shared {
			state = ci.CheckRunState{}
		}

		next, err := p.reporter.Report(ctx, state, res.Diagnostics[sev], sev, p.config.HeadSHA)
		if err != nil {
			log.Error("Failed to report check run, skipping remaining reports", "severity", sev, "error", err)
			res.DeliveryErr = err
			break
		}

		state = next
		if !shared {
			res.CheckRuns = append(res.CheckRuns, next)
		}
	}
	if shared {
		res.CheckRuns = []ci.CheckRunState{state}
	}
	return res
}

func (p *Pipeline) removeLog(path string) {
	if err := p.fs.Remove(path); err != nil {
		log.Warn("Failed to remove build log", "path", path, "error", err)
	}
}

func (p *Pipeline) writeOutputs(res *Result) {
	var runID int64
	switch {
	case len(res.CheckRuns) > 0:
		runID = res.CheckRuns[0].ID
	case res.BuildRun.Created():
		runID = res.BuildRun.ID
	}
	err := ci.WriteResultOutputs(p.output, ci.ResultOutputs{
		ErrorCount:   len(res.Diagnostics[diagnostics.SeverityError]),
		WarningCount: len(res.Diagnostics[diagnostics.SeverityWarning]),
		ExitCode:     res.BuildExitCode,
		CheckRunID:   runID,
	})
	if err != nil {
		log.Warn("Failed to write step outputs", "error", err)
	}
}

// foldExitCode keeps a failing build's code and turns a delivery failure of
// a successful build into 1.
func foldExitCode(buildCode int, deliveryErr error) int {
	if buildCode != 0 {
		return buildCode
	}
	if deliveryErr != nil {
		return 1
	}
	return 0
}
