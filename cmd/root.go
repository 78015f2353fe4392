package cmd

import (
	"context"

	"github.com/spf13/cobra"

	errUtils "github.com/cloudposse/buildcheck/errors"
	cfg "github.com/cloudposse/buildcheck/pkg/config"
	"github.com/cloudposse/buildcheck/pkg/diagnostics"
	"github.com/cloudposse/buildcheck/pkg/git"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/schema"

	// Check run transports register themselves.
	_ "github.com/cloudposse/buildcheck/pkg/ci/providers/generic"
	_ "github.com/cloudposse/buildcheck/pkg/ci/providers/github"
)

// skipConfigAnnotation marks commands that run without loading configuration.
const skipConfigAnnotation = "buildcheck/skip-config"

var (
	buildcheckConfig *schema.Configuration
	reportingConfig  diagnostics.ReportingConfig
	configPath       string
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "buildcheck",
	Short: "Run Unity builds and publish their diagnostics as GitHub check runs",
	Long: `buildcheck runs a Unity build, captures its log, classifies the errors and warnings it contains ` +
		`and publishes them as GitHub check runs and a job step summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			return nil
		}
		return initConfig(cmd)
	},
}

// initConfig loads, validates and applies the configuration for cmd.
func initConfig(cmd *cobra.Command) error {
	loaded, err := cfg.LoadConfig(cfg.LoadOptions{ConfigPath: configPath, Flags: cmd.Flags()})
	if err != nil {
		return err
	}

	git.FillGitHubContext(&loaded.GitHub, loaded.ProjectRoot)

	reporting, err := cfg.Validate(loaded)
	if err != nil {
		return err
	}

	if err := log.Configure(loaded.Logs); err != nil {
		return err
	}
	if err := errUtils.InitializeSentry(&loaded.Errors.Sentry); err != nil {
		log.Warn("Sentry disabled", "error", err)
	}

	buildcheckConfig = loaded
	reportingConfig = reporting
	log.Debug("Loaded configuration", "project_root", loaded.ProjectRoot, "job_key", loaded.JobKey)
	return nil
}

// Execute runs the root command with ctx. It is called once by main.main().
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// Cleanup flushes pending error reports.
func Cleanup() {
	errUtils.CloseSentry()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a buildcheck.yaml file or a directory containing one")
	RootCmd.PersistentFlags().String("logs-level", cfg.DefaultLogsLevel, "Logs level. Supported log levels are Trace, Debug, Info, Warning, Error, Off")
	RootCmd.PersistentFlags().String("logs-file", cfg.DefaultLogsFile, "The file to write logs to, including '/dev/stdout' and '/dev/stderr'")
}
