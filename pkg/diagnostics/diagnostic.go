// Package diagnostics classifies Unity build log lines into typed error and
// warning diagnostics.
package diagnostics

import (
	"fmt"
	"strings"

	errUtils "github.com/cloudposse/buildcheck/errors"
)

// Severity is the classification axis of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
)

// Severities lists every severity in reporting order.
var Severities = []Severity{SeverityError, SeverityWarning}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range Severities {
		if strings.EqualFold(s, string(sev)) {
			return sev, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected error or warning)", errUtils.ErrInvalidSeverity, s)
}

// Lower returns the lower-case severity name, e.g. "error".
func (s Severity) Lower() string {
	return strings.ToLower(string(s))
}

// Plural returns the lower-case plural, e.g. "errors".
func (s Severity) Plural() string {
	return s.Lower() + "s"
}

// Diagnostic is one matched log line.
type Diagnostic struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	// LineNumber is 1-based.
	LineNumber int `json:"lineNumber"`
	// Context holds up to two lines before and after the match, including the match itself.
	Context  []string `json:"context"`
	Severity Severity `json:"severity"`
}
