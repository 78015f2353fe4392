package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudposse/buildcheck/pkg/ci"
	"github.com/cloudposse/buildcheck/pkg/diagnostics"
	"github.com/cloudposse/buildcheck/pkg/logpath"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/pipeline"
	"github.com/cloudposse/buildcheck/pkg/runner"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [-- command [args...]]",
	Short: "Run the build and report its diagnostics",
	Long: `Run the build command, tee its output to a job-unique log file, then classify the log ` +
		`and publish one check run per severity. The process exits with the build's exit code, ` +
		`or 1 when the build succeeded but a check run could not be delivered.`,
	Example: `buildcheck run -- unity-editor -batchmode -quit -projectPath . -executeMethod Build.Perform
BUILDCHECK_BUILD_COMMAND='make build' buildcheck run --job-key windows`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := buildcheckConfig

		command, err := buildCommand(args, config.Build.Command)
		if err != nil {
			return err
		}

		output := ci.NewOutputWriter(&config.GitHub)
		rep, err := newReporter(config, reportingConfig, output)
		if err != nil {
			return err
		}

		pc := pipelineConfig(config)
		opts := append([]pipeline.Option{
			pipeline.WithAllocator(logpath.New(config.ProjectRoot)),
			pipeline.WithRunner(runner.NewShellRunner(command,
				runner.WithDir(config.ProjectRoot),
				runner.WithName(config.Build.Shell),
			)),
			pipeline.WithOutputWriter(output),
		}, buildOptions(cmd.Context(), config, rep, pc.BuildID)...)

		p := pipeline.New(pc, diagnostics.NewClassifier(reportingConfig), rep, opts...)

		res, err := p.Run(cmd.Context())
		if err != nil {
			return err
		}

		log.Info("Build analyzed",
			"errors", len(res.Diagnostics[diagnostics.SeverityError]),
			"warnings", len(res.Diagnostics[diagnostics.SeverityWarning]),
			"exit_code", res.ExitCode,
		)
		return resultError(res)
	},
}

func init() {
	// Flags after the first positional argument belong to the build command.
	runCmd.Flags().SetInterspersed(false)
	addCheckFlags(runCmd)
	runCmd.Flags().String("job-key", "", "Job identifier used in the log file name (defaults to GITHUB_JOB)")
	runCmd.Flags().String("project-root", "", "Directory the build runs in and the log is written to (defaults to GITHUB_WORKSPACE)")
	runCmd.Flags().Bool("track-build", false, "Publish an in-progress check run for the build and complete it with the build's outcome")
	runCmd.Flags().String("build-id", "", "Build identifier sent to on-complete workflows (random when unset)")
	RootCmd.AddCommand(runCmd)
}

// addCheckFlags adds the reporting flags shared by run and parse --report.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("check", true, "Publish check runs when running in GitHub Actions")
	cmd.Flags().Bool("async", false, "Deliver check runs through the async checks workflow")
	cmd.Flags().Int64("check-run-id", 0, "Update this existing check run instead of creating one per severity")
	cmd.Flags().String("check-name", "", "Name of the shared check run")
	cmd.Flags().String("head-sha", "", "Commit the check runs are attached to (defaults to GITHUB_SHA)")
	cmd.Flags().Int("max-attempts", 0, "Delivery attempts per check run, including the first (1-5)")
	cmd.Flags().Bool("report-errors", true, "Report errors")
	cmd.Flags().Bool("report-warnings", true, "Report warnings")
}
