// Package summary renders diagnostics as a Markdown report.
package summary

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/cloudposse/buildcheck/pkg/diagnostics"
)

const minFence = 3

// Render groups diags by category, in first-seen category order, and renders
// a Markdown report. Context lines are emitted verbatim inside fenced blocks.
func Render(diags []diagnostics.Diagnostic, sev diagnostics.Severity) string {
	if len(diags) == 0 {
		return fmt.Sprintf("No %s to report.\n", sev.Plural())
	}

	categories := lo.Uniq(lo.Map(diags, func(d diagnostics.Diagnostic, _ int) string {
		return d.Category
	}))
	byCategory := lo.GroupBy(diags, func(d diagnostics.Diagnostic) string {
		return d.Category
	})

	var b strings.Builder
	fmt.Fprintf(&b, "## Unity Build %s Summary\n\n", sev)
	for _, category := range categories {
		group := byCategory[category]
		fmt.Fprintf(&b, "### %s (%d %s)\n\n", category, len(group), occurrences(len(group)))
		for _, d := range group {
			writeDiagnostic(&b, d)
		}
	}
	return b.String()
}

func writeDiagnostic(b *strings.Builder, d diagnostics.Diagnostic) {
	fence := strings.Repeat("`", fenceLength(d.Context))
	fmt.Fprintf(b, "- **Line %d**: %s\n", d.LineNumber, d.Message)
	fmt.Fprintf(b, "  %s\n", fence)
	for _, line := range d.Context {
		fmt.Fprintf(b, "  %s\n", line)
	}
	fmt.Fprintf(b, "  %s\n\n", fence)
}

// fenceLength returns a backtick fence longer than any backtick run in lines,
// so log content can never close the block early.
func fenceLength(lines []string) int {
	longest := 0
	for _, line := range lines {
		run := 0
		for _, r := range line {
			if r == '`' {
				run++
				longest = max(longest, run)
				continue
			}
			run = 0
		}
	}
	return max(minFence, longest+1)
}

func occurrences(n int) string {
	if n == 1 {
		return "occurrence"
	}
	return "occurrences"
}

// CountLine returns the one-line summary used for the check run.
func CountLine(diags []diagnostics.Diagnostic, sev diagnostics.Severity) string {
	return fmt.Sprintf("Found %d %s during the build.", len(diags), sev.Plural())
}
