package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"mvdan.cc/sh/v3/syntax"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/ci"
	ghprovider "github.com/cloudposse/buildcheck/pkg/ci/providers/github"
	"github.com/cloudposse/buildcheck/pkg/diagnostics"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/pipeline"
	"github.com/cloudposse/buildcheck/pkg/reporter"
	"github.com/cloudposse/buildcheck/pkg/schema"
	"github.com/cloudposse/buildcheck/pkg/ui"
	"github.com/cloudposse/buildcheck/pkg/ui/markdown"
)

// newReporter selects the job's transport and builds the reporter around it.
func newReporter(config *schema.Configuration, reporting diagnostics.ReportingConfig, output ci.OutputWriter) (*reporter.Reporter, error) {
	transport, err := ci.SelectTransport(config)
	if err != nil {
		return nil, err
	}

	var owner, repo string
	switch {
	case config.GitHub.Repository != "":
		owner, repo, err = ci.SplitRepository(config.GitHub.Repository)
		if err != nil {
			return nil, err
		}
	case transport.Name() != ci.TransportGeneric:
		return nil, errUtils.Build(errUtils.MarkConfig(errUtils.ErrMissingRepository)).
			WithContext("transport", transport.Name()).
			WithHint("Set GITHUB_REPOSITORY or github.repository to owner/name").
			Err()
	}

	return reporter.New(reporter.Config{
		Reporting: reporting,
		Owner:     owner,
		Repo:      repo,
		Retry:     config.Retry,
	}, transport, reporter.WithOutputWriter(output)), nil
}

// pipelineConfig derives the per-job pipeline settings. A build without a
// configured id gets a random one.
func pipelineConfig(config *schema.Configuration) pipeline.Config {
	buildID := config.BuildID
	if buildID == "" {
		buildID = uuid.NewString()
	}
	return pipeline.Config{
		JobKey:        config.JobKey,
		BuildID:       buildID,
		HeadSHA:       lo.CoalesceOrEmpty(config.Check.HeadSHA, config.GitHub.SHA),
		SharedRunID:   config.Check.RunID,
		SharedRunName: config.Check.Name,
	}
}

// buildOptions wires build tracking and the on-complete workflows.
func buildOptions(ctx context.Context, config *schema.Configuration, rep *reporter.Reporter, buildID string) []pipeline.Option {
	var opts []pipeline.Option
	if config.Check.Enabled && config.Check.TrackBuild {
		opts = append(opts, pipeline.WithBuildTracker(rep))
	}
	if hook := completionHook(ctx, config, buildID); hook != nil {
		opts = append(opts, pipeline.WithCompletionHook(hook))
	}
	return opts
}

// completionHook dispatches the on-complete workflows with the build id.
// Failures are logged and never change the job's outcome.
func completionHook(ctx context.Context, config *schema.Configuration, buildID string) pipeline.CompletionHook {
	names := lo.Compact(config.Check.OnCompleteWorkflows)
	if len(names) == 0 {
		return nil
	}
	if !config.GitHub.Actions {
		log.Debug("Not in GitHub Actions, skipping on-complete workflows", "workflows", names)
		return nil
	}

	owner, repo, err := ci.SplitRepository(config.GitHub.Repository)
	if err != nil {
		log.Warn("Skipping on-complete workflows", "error", err)
		return nil
	}
	trigger, err := ghprovider.NewWorkflowTriggerFromConfig(ctx, config)
	if err != nil {
		log.Warn("Skipping on-complete workflows", "error", err)
		return nil
	}

	return func(ctx context.Context, _ *pipeline.Result) {
		if err := trigger.Trigger(ctx, owner, repo, names, buildID); err != nil {
			log.Warn("Failed to trigger on-complete workflows", "error", err)
		}
	}
}

// buildCommand turns the arguments after "--" into a script. A single
// argument is taken as a script as is; several are quoted and joined.
func buildCommand(args []string, configured string) (string, error) {
	switch len(args) {
	case 0:
		return configured, nil
	case 1:
		return args[0], nil
	}

	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", errUtils.Build(errUtils.ErrBuildCommandParse).
				WithExplanation(err.Error()).
				WithContext("argument", arg).
				Err()
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}

// resultError converts a pipeline result into the command's error.
func resultError(res *pipeline.Result) error {
	if res.ExitCode == 0 {
		return nil
	}
	if res.DeliveryErr != nil && res.BuildExitCode == 0 {
		return errUtils.WithExitCode(res.DeliveryErr, res.ExitCode)
	}
	return errUtils.ExitCodeError{Code: res.ExitCode}
}

// printMarkdown writes md to w, rendered when w is a terminal.
func printMarkdown(w io.Writer, md string) error {
	f, ok := w.(*os.File)
	if !ok || !ui.IsTerminal(f) {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := markdown.NewRenderer(
		markdown.WithWidth(uint(ui.Width(f, 100))),
		markdown.WithColorProfile(ui.ColorProfile(f)),
	)
	if err != nil {
		log.Debug("Markdown renderer unavailable", "error", err)
		_, err = io.WriteString(w, md)
		return err
	}

	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
