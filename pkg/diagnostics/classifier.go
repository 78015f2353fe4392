package diagnostics

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	errUtils "github.com/cloudposse/buildcheck/errors"
	log "github.com/cloudposse/buildcheck/pkg/logger"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

// contextRadius is the number of lines kept on each side of a match.
const contextRadius = 2

// ReportingConfig is the compiled, immutable reporting configuration of one job.
type ReportingConfig struct {
	ReportErrors    bool
	ReportWarnings  bool
	ErrorPatterns   []PatternRule
	WarningPatterns []PatternRule
}

// NewReportingConfig compiles the user rules of cfg.
func NewReportingConfig(cfg schema.ReportingConfig) (ReportingConfig, error) {
	errorPatterns, err := CompileRules(cfg.ErrorPatterns)
	if err != nil {
		return ReportingConfig{}, err
	}
	warningPatterns, err := CompileRules(cfg.WarningPatterns)
	if err != nil {
		return ReportingConfig{}, err
	}
	return ReportingConfig{
		ReportErrors:    cfg.ReportErrors,
		ReportWarnings:  cfg.ReportWarnings,
		ErrorPatterns:   errorPatterns,
		WarningPatterns: warningPatterns,
	}, nil
}

// Enabled reports whether diagnostics of sev are reported.
func (c ReportingConfig) Enabled(sev Severity) bool {
	switch sev {
	case SeverityError:
		return c.ReportErrors
	case SeverityWarning:
		return c.ReportWarnings
	default:
		return false
	}
}

// Classifier turns log text into diagnostics.
type Classifier struct {
	config   ReportingConfig
	patterns *PatternSet
}

// NewClassifier creates a classifier whose user rules precede the built-in rules.
func NewClassifier(config ReportingConfig) *Classifier {
	user := map[Severity][]PatternRule{
		SeverityError:   config.ErrorPatterns,
		SeverityWarning: config.WarningPatterns,
	}
	return &Classifier{
		config:   config,
		patterns: NewPatternSet(user, BuiltinRules()),
	}
}

// Patterns returns the effective pattern set.
func (c *Classifier) Patterns() *PatternSet {
	return c.patterns
}

// Parse scans logText and returns one diagnostic per line matching a rule of
// sev. It never fails and never mutates its input. A disabled severity yields
// no diagnostics without scanning.
func (c *Classifier) Parse(logText string, sev Severity) []Diagnostic {
	if !c.config.Enabled(sev) {
		log.Debug("Reporting disabled, skipping scan", "severity", sev)
		return nil
	}

	lines := splitLines(logText)
	var diagnostics []Diagnostic
	for i, line := range lines {
		rule, message, ok := c.patterns.match(sev, line)
		if !ok {
			continue
		}
		diagnostics = append(diagnostics, Diagnostic{
			Category:   rule.Category,
			Message:    message,
			LineNumber: i + 1,
			Context:    contextWindow(lines, i),
			Severity:   sev,
		})
	}

	log.Debug("Scanned build log", "severity", sev, "lines", len(lines), "matches", len(diagnostics))
	return diagnostics
}

// splitLines splits text on newlines. A single trailing newline does not
// produce a final empty line, and a trailing carriage return is dropped.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// contextWindow returns a copy of lines[i-2 : i+3], clipped to the slice bounds.
func contextWindow(lines []string, i int) []string {
	start := max(0, i-contextRadius)
	end := min(len(lines), i+contextRadius+1)
	window := make([]string, end-start)
	copy(window, lines[start:end])
	return window
}

// ReadLog reads the build log at path. A missing file is reported as
// ErrBuildLogMissing so callers can degrade gracefully.
func ReadLog(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", errUtils.ErrBuildLogMissing, path)
		}
		return "", fmt.Errorf("%w: %s: %w", errUtils.ErrBuildLogRead, path, err)
	}
	return string(data), nil
}
