package config

const (
	// CliConfigFileName is the config file name without extension.
	CliConfigFileName = "buildcheck"

	// EnvPrefix prefixes every buildcheck environment variable.
	EnvPrefix = "BUILDCHECK"

	// ConfigPathEnvVar points at a directory containing buildcheck.yaml.
	ConfigPathEnvVar = "BUILDCHECK_CLI_CONFIG_PATH"

	DefaultAsyncWorkflow = "Async Checks API"
	DefaultLogsFile      = "/dev/stderr"
	DefaultLogsLevel     = "Info"
)
