package ci

import (
	"fmt"
	"os"
	"strings"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

// NoopOutputWriter is an OutputWriter that does nothing.
// Used when not running in CI.
type NoopOutputWriter struct{}

// WriteOutput implements OutputWriter.
func (w *NoopOutputWriter) WriteOutput(_, _ string) error {
	return nil
}

// WriteSummary implements OutputWriter.
func (w *NoopOutputWriter) WriteSummary(_ string) error {
	return nil
}

// FileOutputWriter writes outputs to a file (like $GITHUB_OUTPUT).
type FileOutputWriter struct {
	outputPath  string
	summaryPath string
}

// NewFileOutputWriter creates a new FileOutputWriter.
func NewFileOutputWriter(outputPath, summaryPath string) *FileOutputWriter {
	return &FileOutputWriter{
		outputPath:  outputPath,
		summaryPath: summaryPath,
	}
}

// NewOutputWriter returns a file writer when the job exposes an output or
// summary file, and a no-op writer otherwise.
func NewOutputWriter(cfg *schema.GitHubConfig) OutputWriter {
	if cfg == nil || (cfg.Output == "" && cfg.StepSummary == "") {
		return &NoopOutputWriter{}
	}
	return NewFileOutputWriter(cfg.Output, cfg.StepSummary)
}

// WriteOutput writes a key-value pair to the output file.
// Format: key=value (single line) or key<<EOF\nvalue\nEOF (multiline).
func (w *FileOutputWriter) WriteOutput(key, value string) error {
	if w.outputPath == "" {
		return nil
	}

	f, err := os.OpenFile(w.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	if strings.Contains(value, "\n") {
		delimiter := "EOF"
		for strings.Contains(value, delimiter) {
			delimiter += "_"
		}
		_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
	} else {
		_, err = fmt.Fprintf(f, "%s=%s\n", key, value)
	}

	return err
}

// WriteSummary appends content to the job summary file.
func (w *FileOutputWriter) WriteSummary(content string) error {
	if w.summaryPath == "" {
		return nil
	}

	f, err := os.OpenFile(w.summaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", errUtils.ErrStepSummaryWrite, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("%w: %w", errUtils.ErrStepSummaryWrite, err)
	}
	return nil
}

// Output keys written after a pipeline run.
const (
	OutputErrorCount   = "error_count"
	OutputWarningCount = "warning_count"
	OutputExitCode     = "build_exit_code"
	OutputCheckRunID   = "check_run_id"
)

// ResultOutputs are the step outputs of one pipeline run.
type ResultOutputs struct {
	ErrorCount   int
	WarningCount int
	ExitCode     int
	CheckRunID   int64
}

// WriteResultOutputs writes the standard result outputs.
func WriteResultOutputs(w OutputWriter, opts ResultOutputs) error {
	if err := w.WriteOutput(OutputErrorCount, fmt.Sprintf("%d", opts.ErrorCount)); err != nil {
		return err
	}
	if err := w.WriteOutput(OutputWarningCount, fmt.Sprintf("%d", opts.WarningCount)); err != nil {
		return err
	}
	if err := w.WriteOutput(OutputExitCode, fmt.Sprintf("%d", opts.ExitCode)); err != nil {
		return err
	}
	if opts.CheckRunID != 0 {
		if err := w.WriteOutput(OutputCheckRunID, fmt.Sprintf("%d", opts.CheckRunID)); err != nil {
			return err
		}
	}
	return nil
}
