package schema

import "time"

// Configuration is the full buildcheck configuration for one CI job.
type Configuration struct {
	ProjectRoot string          `yaml:"project_root" json:"project_root" mapstructure:"project_root"`
	JobKey      string          `yaml:"job_key" json:"job_key" mapstructure:"job_key"`
	BuildID     string          `yaml:"build_id" json:"build_id" mapstructure:"build_id"`
	Build       BuildConfig     `yaml:"build" json:"build" mapstructure:"build"`
	Reporting   ReportingConfig `yaml:"reporting" json:"reporting" mapstructure:"reporting"`
	Check       CheckConfig     `yaml:"check" json:"check" mapstructure:"check"`
	GitHub      GitHubConfig    `yaml:"github" json:"github" mapstructure:"github"`
	Retry       RetryConfig     `yaml:"retry" json:"retry" mapstructure:"retry"`
	Logs        Logs            `yaml:"logs" json:"logs" mapstructure:"logs"`
	Errors      ErrorsConfig    `yaml:"errors" json:"errors" mapstructure:"errors"`
}

// BuildConfig describes the external build command whose output is analyzed.
type BuildConfig struct {
	Command string `yaml:"command" json:"command" mapstructure:"command"`
	// Shell is the script name used in parse errors.
	Shell string `yaml:"shell" json:"shell" mapstructure:"shell"`
}

// PatternRule is a user-supplied classification rule.
type PatternRule struct {
	Pattern  string `yaml:"pattern" json:"pattern" mapstructure:"pattern"`
	Category string `yaml:"category" json:"category" mapstructure:"category"`
}

// ReportingConfig toggles reporting per severity and adds user rules that are
// evaluated before the built-in rules.
type ReportingConfig struct {
	ReportErrors    bool          `yaml:"report_errors" json:"report_errors" mapstructure:"report_errors"`
	ReportWarnings  bool          `yaml:"report_warnings" json:"report_warnings" mapstructure:"report_warnings"`
	ErrorPatterns   []PatternRule `yaml:"error_patterns" json:"error_patterns" mapstructure:"error_patterns"`
	WarningPatterns []PatternRule `yaml:"warning_patterns" json:"warning_patterns" mapstructure:"warning_patterns"`
}

// CheckConfig controls check-run delivery.
type CheckConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	// Async selects delivery through the async checks workflow.
	Async         bool   `yaml:"async" json:"async" mapstructure:"async"`
	AsyncWorkflow string `yaml:"async_workflow" json:"async_workflow" mapstructure:"async_workflow"`
	// RunID is an existing check run owned by another context. When set, both
	// severities update it instead of creating their own runs.
	RunID int64  `yaml:"run_id" json:"run_id" mapstructure:"run_id"`
	Name  string `yaml:"name" json:"name" mapstructure:"name"`
	// HeadSHA overrides the commit the check runs are attached to.
	HeadSHA string `yaml:"head_sha" json:"head_sha" mapstructure:"head_sha"`
	// TrackBuild publishes an in-progress run for the build itself.
	TrackBuild bool `yaml:"track_build" json:"track_build" mapstructure:"track_build"`
	// OnCompleteWorkflows are dispatched with the build id once the build ends.
	OnCompleteWorkflows []string `yaml:"on_complete_workflows" json:"on_complete_workflows" mapstructure:"on_complete_workflows"`
}

// GitHubConfig holds the GitHub Actions context.
type GitHubConfig struct {
	Actions       bool   `yaml:"actions" json:"actions" mapstructure:"actions"`
	Token         string `yaml:"token" json:"-" mapstructure:"token"`
	DispatchToken string `yaml:"dispatch_token" json:"-" mapstructure:"dispatch_token"`
	Repository    string `yaml:"repository" json:"repository" mapstructure:"repository"`
	SHA           string `yaml:"sha" json:"sha" mapstructure:"sha"`
	Ref           string `yaml:"ref" json:"ref" mapstructure:"ref"`
	RunID         string `yaml:"run_id" json:"run_id" mapstructure:"run_id"`
	RunAttempt    string `yaml:"run_attempt" json:"run_attempt" mapstructure:"run_attempt"`
	StepSummary   string `yaml:"step_summary" json:"step_summary" mapstructure:"step_summary"`
	Output        string `yaml:"output" json:"output" mapstructure:"output"`
	APIURL        string `yaml:"api_url" json:"api_url" mapstructure:"api_url"`
}

// BackoffStrategy selects how the delay between attempts grows.
type BackoffStrategy string

const (
	BackoffConstant    BackoffStrategy = "constant"
	BackoffLinear      BackoffStrategy = "linear"
	BackoffExponential BackoffStrategy = "exponential"
)

// RetryConfig bounds delivery retries. MaxAttempts counts the initial attempt.
type RetryConfig struct {
	MaxAttempts     int             `yaml:"max_attempts" json:"max_attempts" mapstructure:"max_attempts"`
	BackoffStrategy BackoffStrategy `yaml:"backoff_strategy" json:"backoff_strategy" mapstructure:"backoff_strategy"`
	InitialDelay    time.Duration   `yaml:"initial_delay" json:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay        time.Duration   `yaml:"max_delay" json:"max_delay" mapstructure:"max_delay"`
	Multiplier      float64         `yaml:"multiplier" json:"multiplier" mapstructure:"multiplier"`
	RandomJitter    bool            `yaml:"random_jitter" json:"random_jitter" mapstructure:"random_jitter"`
}

type Logs struct {
	File  string `yaml:"file" json:"file" mapstructure:"file"`
	Level string `yaml:"level" json:"level" mapstructure:"level"`
}

type ErrorsConfig struct {
	Sentry SentryConfig `yaml:"sentry" json:"sentry" mapstructure:"sentry"`
}

// SentryConfig configures optional error capture.
type SentryConfig struct {
	Enabled     bool              `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	DSN         string            `yaml:"dsn" json:"dsn" mapstructure:"dsn"`
	Environment string            `yaml:"environment" json:"environment" mapstructure:"environment"`
	Release     string            `yaml:"release" json:"release" mapstructure:"release"`
	SampleRate  float64           `yaml:"sample_rate" json:"sample_rate" mapstructure:"sample_rate"`
	Debug       bool              `yaml:"debug" json:"debug" mapstructure:"debug"`
	Tags        map[string]string `yaml:"tags" json:"tags" mapstructure:"tags"`
}

// RedactedValue replaces secrets in printed configuration.
const RedactedValue = "<redacted>"

// Redacted returns a copy of c with secrets masked.
func (c Configuration) Redacted() Configuration {
	mask := func(s string) string {
		if s == "" {
			return s
		}
		return RedactedValue
	}
	c.GitHub.Token = mask(c.GitHub.Token)
	c.GitHub.DispatchToken = mask(c.GitHub.DispatchToken)
	c.Errors.Sentry.DSN = mask(c.Errors.Sentry.DSN)
	return c
}
