package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

// isolate runs the test in an empty directory with no CI environment.
func isolate(t *testing.T) string {
	t.Helper()
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}
	t.Setenv(ConfigPathEnvVar, "")
	dir := t.TempDir()
	t.Chdir(dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	return wd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	wd := isolate(t)

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, wd, cfg.ProjectRoot)
	assert.True(t, cfg.Reporting.ReportErrors)
	assert.True(t, cfg.Reporting.ReportWarnings)
	assert.True(t, cfg.Check.Enabled)
	assert.False(t, cfg.Check.Async)
	assert.Equal(t, DefaultAsyncWorkflow, cfg.Check.AsyncWorkflow)
	assert.False(t, cfg.GitHub.Actions)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, schema.BackoffExponential, cfg.Retry.BackoffStrategy)
	assert.Equal(t, 2*time.Second, cfg.Retry.InitialDelay)
	assert.Equal(t, DefaultLogsLevel, cfg.Logs.Level)
	assert.Equal(t, DefaultLogsFile, cfg.Logs.File)
}

func TestLoadConfig_WorkDirFile(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "buildcheck.yaml"), `
reporting:
  report_warnings: false
  error_patterns:
    - pattern: 'FATAL: (.*)'
      category: Fatal
check:
  async: true
  run_id: 99
retry:
  max_attempts: 3
  initial_delay: 500ms
  backoff_strategy: constant
`)

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)

	assert.False(t, cfg.Reporting.ReportWarnings)
	assert.True(t, cfg.Reporting.ReportErrors, "defaults survive a partial file")
	require.Len(t, cfg.Reporting.ErrorPatterns, 1)
	assert.Equal(t, schema.PatternRule{Pattern: "FATAL: (.*)", Category: "Fatal"}, cfg.Reporting.ErrorPatterns[0])
	assert.True(t, cfg.Check.Async)
	assert.Equal(t, int64(99), cfg.Check.RunID)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.InitialDelay)
	assert.Equal(t, schema.BackoffConstant, cfg.Retry.BackoffStrategy)
}

func TestLoadConfig_GitHubEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_REPOSITORY", "acme/game")
	t.Setenv("GITHUB_SHA", "abc123")
	t.Setenv("GITHUB_REF", "refs/heads/main")
	t.Setenv("GITHUB_JOB", "build-windows")
	t.Setenv("GITHUB_TOKEN", "job-token")
	t.Setenv("GITHUB_STEP_SUMMARY", "/tmp/summary.md")

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)

	assert.True(t, cfg.GitHub.Actions)
	assert.Equal(t, "acme/game", cfg.GitHub.Repository)
	assert.Equal(t, "abc123", cfg.GitHub.SHA)
	assert.Equal(t, "refs/heads/main", cfg.GitHub.Ref)
	assert.Equal(t, "build-windows", cfg.JobKey)
	assert.Equal(t, "job-token", cfg.GitHub.Token)
	assert.Equal(t, "/tmp/summary.md", cfg.GitHub.StepSummary)
}

func TestLoadConfig_PrefixedEnvWins(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "buildcheck.yaml"), "check:\n  run_id: 1\n")
	t.Setenv("GITHUB_TOKEN", "job-token")
	t.Setenv("BUILDCHECK_GITHUB_TOKEN", "app-token")
	t.Setenv("BUILDCHECK_CHECK_RUN_ID", "123")
	t.Setenv("BUILDCHECK_RETRY_MAX_DELAY", "1m")

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "app-token", cfg.GitHub.Token)
	assert.Equal(t, int64(123), cfg.Check.RunID)
	assert.Equal(t, time.Minute, cfg.Retry.MaxDelay)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "ci.yaml")
	writeFile(t, path, "check:\n  name: Unity Build\n")

	cfg, err := LoadConfig(LoadOptions{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "Unity Build", cfg.Check.Name)

	writeFile(t, filepath.Join(dir, "buildcheck.yaml"), "check:\n  name: From Dir\n")
	cfg, err = LoadConfig(LoadOptions{ConfigPath: dir})
	require.NoError(t, err)
	assert.Equal(t, "From Dir", cfg.Check.Name)
}

func TestLoadConfig_ConfigPathEnv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "buildcheck.yaml"), "job_key: from-env-path\n")
	t.Setenv(ConfigPathEnvVar, dir)

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "from-env-path", cfg.JobKey)
}

func TestLoadConfig_MissingExplicitPath(t *testing.T) {
	isolate(t)

	_, err := LoadConfig(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorIs(t, err, errUtils.ErrInvalidConfig)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "buildcheck.yaml"), "check: [unterminated\n")

	_, err := LoadConfig(LoadOptions{})
	assert.Error(t, err)
}

func TestLoadConfig_Flags(t *testing.T) {
	isolate(t)
	t.Setenv("BUILDCHECK_LOGS_FILE", "/tmp/buildcheck.log")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("logs-level", "Info", "")
	flags.String("logs-file", DefaultLogsFile, "")
	flags.Bool("async", false, "")
	require.NoError(t, flags.Parse([]string{"--logs-level=Debug", "--async"}))

	cfg, err := LoadConfig(LoadOptions{Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "Debug", cfg.Logs.Level)
	assert.True(t, cfg.Check.Async)
	assert.Equal(t, "/tmp/buildcheck.log", cfg.Logs.File, "an unset flag does not shadow the environment")
}

func TestLoadConfig_BuildTracking(t *testing.T) {
	wd := isolate(t)
	writeFile(t, filepath.Join(wd, "buildcheck.yaml"), `
check:
  track_build: true
  on_complete_workflows:
    - Deploy Build
    - Notify
`)

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)
	assert.True(t, cfg.Check.TrackBuild)
	assert.Equal(t, []string{"Deploy Build", "Notify"}, cfg.Check.OnCompleteWorkflows)
	assert.Empty(t, cfg.BuildID)

	t.Setenv("BUILDCHECK_CHECK_ON_COMPLETE_WORKFLOWS", "Publish Artifacts,Notify")
	t.Setenv("BUILDCHECK_BUILD_ID", "b1")
	cfg, err = LoadConfig(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Publish Artifacts", "Notify"}, cfg.Check.OnCompleteWorkflows, "names keep their spaces")
	assert.Equal(t, "b1", cfg.BuildID)
}
