// Package runner runs the external build command and captures its log.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	errUtils "github.com/cloudposse/buildcheck/errors"
	log "github.com/cloudposse/buildcheck/pkg/logger"
)

const defaultScriptName = "build"

// Runner runs the build and writes its combined output to logPath. The log
// file is closed when Run returns. A non-zero exit code is not an error.
type Runner interface {
	Run(ctx context.Context, logPath string) (int, error)
}

// ShellRunner interprets a shell command with mvdan.cc/sh and tees its
// stdout and stderr to the terminal and the log file.
type ShellRunner struct {
	command string
	name    string
	dir     string
	env     []string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	fs      afero.Fs
}

// Option configures a ShellRunner.
type Option func(*ShellRunner)

// WithDir sets the working directory.
func WithDir(dir string) Option {
	return func(r *ShellRunner) {
		r.dir = dir
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) Option {
	return func(r *ShellRunner) {
		r.env = append(r.env, env...)
	}
}

// WithStdIO replaces the terminal streams.
func WithStdIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *ShellRunner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithFs sets the filesystem the log file is created on.
func WithFs(fs afero.Fs) Option {
	return func(r *ShellRunner) {
		r.fs = fs
	}
}

// WithName sets the script name used in parse errors.
func WithName(name string) Option {
	return func(r *ShellRunner) {
		if name != "" {
			r.name = name
		}
	}
}

// NewShellRunner creates a runner for command.
func NewShellRunner(command string, opts ...Option) *ShellRunner {
	r := &ShellRunner{
		command: command,
		name:    defaultScriptName,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		fs:      afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run implements Runner.
func (r *ShellRunner) Run(ctx context.Context, logPath string) (code int, err error) {
	if strings.TrimSpace(r.command) == "" {
		return 1, errUtils.Build(errUtils.ErrBuildCommandMissing).
			WithHint("Set build.command in buildcheck.yaml or pass the command after --").
			Err()
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(r.command), r.name)
	if err != nil {
		return 1, fmt.Errorf("%w: %w", errUtils.ErrBuildCommandParse, err)
	}

	logFile, err := r.fs.Create(logPath)
	if err != nil {
		return 1, fmt.Errorf("%w: %s: %w", errUtils.ErrBuildCommandStart, logPath, err)
	}
	defer func() {
		if closeErr := logFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %s: %w", errUtils.ErrBuildCommandStart, logPath, closeErr)
		}
	}()

	environ := append(os.Environ(), r.env...)
	runner, err := interp.New(
		interp.Dir(r.dir),
		interp.Env(expand.ListEnviron(environ...)),
		interp.StdIO(r.stdin, io.MultiWriter(r.stdout, logFile), io.MultiWriter(r.stderr, logFile)),
	)
	if err != nil {
		return 1, fmt.Errorf("%w: %w", errUtils.ErrBuildCommandStart, err)
	}

	log.Debug("Running build command", "command", r.command, "log", logPath)
	err = runner.Run(ctx, file)

	var status interp.ExitStatus
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &status):
		log.Debug("Build command exited", "code", int(status))
		return int(status), nil
	default:
		return 1, fmt.Errorf("%w: %w", errUtils.ErrBuildCommandStart, err)
	}
}
