// Package config loads the buildcheck configuration from defaults, an
// optional buildcheck.yaml, the environment and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	errUtils "github.com/cloudposse/buildcheck/errors"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/retry"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

// LoadOptions selects the sources merged on top of the defaults.
type LoadOptions struct {
	// ConfigPath is an explicit buildcheck.yaml (file or directory).
	ConfigPath string
	// Flags are bound for every flag set on the command line.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"logs-level":      "logs.level",
	"logs-file":       "logs.file",
	"job-key":         "job_key",
	"project-root":    "project_root",
	"async":           "check.async",
	"check":           "check.enabled",
	"check-run-id":    "check.run_id",
	"check-name":      "check.name",
	"head-sha":        "check.head_sha",
	"track-build":     "check.track_build",
	"build-id":        "build_id",
	"max-attempts":    "retry.max_attempts",
	"report-errors":   "reporting.report_errors",
	"report-warnings": "reporting.report_warnings",
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// envBindings lists the environment variables read for each key, in order
// of precedence. Keys not listed still resolve BUILDCHECK_<KEY>.
var envBindings = map[string][]string{
	"project_root":          {"BUILDCHECK_PROJECT_ROOT", "GITHUB_WORKSPACE"},
	"job_key":               {"BUILDCHECK_JOB_KEY", "GITHUB_JOB"},
	"github.actions":        {"GITHUB_ACTIONS"},
	"github.token":          {"BUILDCHECK_GITHUB_TOKEN", "GITHUB_TOKEN"},
	"github.dispatch_token": {"BUILDCHECK_GITHUB_DISPATCH_TOKEN"},
	"github.repository":     {"BUILDCHECK_GITHUB_REPOSITORY", "GITHUB_REPOSITORY"},
	"github.sha":            {"BUILDCHECK_GITHUB_SHA", "GITHUB_SHA"},
	"github.ref":            {"BUILDCHECK_GITHUB_REF", "GITHUB_REF"},
	"github.run_id":         {"GITHUB_RUN_ID"},
	"github.run_attempt":    {"GITHUB_RUN_ATTEMPT"},
	"github.step_summary":   {"GITHUB_STEP_SUMMARY"},
	"github.output":         {"GITHUB_OUTPUT"},
	"github.api_url":        {"BUILDCHECK_GITHUB_API_URL", "GITHUB_API_URL"},
	"errors.sentry.dsn":     {"BUILDCHECK_ERRORS_SENTRY_DSN", "SENTRY_DSN"},

	// Workflow names may contain spaces, so the list is only split on commas.
	"check.on_complete_workflows": {"BUILDCHECK_CHECK_ON_COMPLETE_WORKFLOWS"},
}

// LoadConfig loads the configuration from the following sources (from lower to higher priority):
// defaults
// buildcheck.yaml in the current directory
// buildcheck.yaml in $BUILDCHECK_CLI_CONFIG_PATH
// the --config path
// ENV vars
// Command-line arguments
func LoadConfig(opts LoadOptions) (*schema.Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetTypeByDefaultValue(true)
	setDefaultConfiguration(v)

	if err := readWorkDirConfig(v); err != nil {
		return nil, err
	}
	if err := readEnvConfigPath(v); err != nil {
		return nil, err
	}
	if opts.ConfigPath != "" {
		if err := readExplicitConfig(v, opts.ConfigPath); err != nil {
			return nil, err
		}
	}

	if err := bindEnv(v); err != nil {
		return nil, err
	}
	if err := bindFlags(v, opts.Flags); err != nil {
		return nil, err
	}

	var cfg schema.Configuration
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToBackoffStrategyHookFunc(),
	)))
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrInvalidConfig).
			WithExplanation(err.Error()).
			WithContext("config_file", v.ConfigFileUsed()).
			Err()
	}

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg.ProjectRoot = wd
	}

	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("Loaded config file", "file", used)
	}
	return &cfg, nil
}

// setDefaultConfiguration sets defaults for the viper instance.
func setDefaultConfiguration(v *viper.Viper) {
	v.SetDefault("project_root", "")
	v.SetDefault("job_key", "")
	v.SetDefault("build_id", "")
	v.SetDefault("build.command", "")
	v.SetDefault("build.shell", "build")

	v.SetDefault("reporting.report_errors", true)
	v.SetDefault("reporting.report_warnings", true)

	v.SetDefault("check.enabled", true)
	v.SetDefault("check.async", false)
	v.SetDefault("check.async_workflow", DefaultAsyncWorkflow)
	v.SetDefault("check.run_id", int64(0))
	v.SetDefault("check.name", "")
	v.SetDefault("check.head_sha", "")
	v.SetDefault("check.track_build", false)
	// Untyped, so SetTypeByDefaultValue leaves the list and the comma hook alone.
	v.SetDefault("check.on_complete_workflows", []any{})

	v.SetDefault("github.actions", false)
	for key := range envBindings {
		if !v.IsSet(key) {
			v.SetDefault(key, "")
		}
	}

	r := retry.DefaultConfig()
	v.SetDefault("retry.max_attempts", r.MaxAttempts)
	v.SetDefault("retry.backoff_strategy", string(r.BackoffStrategy))
	v.SetDefault("retry.initial_delay", r.InitialDelay)
	v.SetDefault("retry.max_delay", r.MaxDelay)
	v.SetDefault("retry.multiplier", r.Multiplier)
	v.SetDefault("retry.random_jitter", r.RandomJitter)

	v.SetDefault("logs.file", DefaultLogsFile)
	v.SetDefault("logs.level", DefaultLogsLevel)

	v.SetDefault("errors.sentry.enabled", false)
	v.SetDefault("errors.sentry.sample_rate", 1.0)
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return err
		}
	}
	return nil
}

// bindFlags binds only the flags set on the command line, so flag defaults
// never shadow the config file or the environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	var bindErr error
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})
	return bindErr
}

// readWorkDirConfig loads buildcheck.yaml from the current working directory.
func readWorkDirConfig(v *viper.Viper) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	return ignoreNotFound(mergeConfig(v, wd, CliConfigFileName))
}

func readEnvConfigPath(v *viper.Viper) error {
	path := os.Getenv(ConfigPathEnvVar)
	if path == "" {
		return nil
	}
	err := mergeConfig(v, path, CliConfigFileName)
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Debug("config not found in ENV var "+ConfigPathEnvVar, "path", path)
		return nil
	}
	return err
}

// readExplicitConfig merges a file or a directory containing buildcheck.yaml.
func readExplicitConfig(v *viper.Viper, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errUtils.Build(errUtils.ErrInvalidConfig).
			WithExplanation(err.Error()).
			WithContext("config_file", path).
			Err()
	}
	if info.IsDir() {
		return mergeConfig(v, path, CliConfigFileName)
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return errUtils.Build(errUtils.ErrInvalidConfig).
			WithExplanation(err.Error()).
			WithContext("config_file", filepath.Base(path)).
			Err()
	}
	return nil
}

// mergeConfig merges config from a specified path and file name.
func mergeConfig(v *viper.Viper, path string, fileName string) error {
	v.AddConfigPath(path)
	v.SetConfigName(fileName)
	return v.MergeInConfig()
}

func ignoreNotFound(err error) error {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}
	return err
}

func stringToBackoffStrategyHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(schema.BackoffStrategy("")) {
			return data, nil
		}
		return schema.BackoffStrategy(data.(string)), nil
	}
}
