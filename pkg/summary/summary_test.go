package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudposse/buildcheck/pkg/diagnostics"
)

func diag(category string, line int, message string, context ...string) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Category:   category,
		Message:    message,
		LineNumber: line,
		Context:    context,
		Severity:   diagnostics.SeverityError,
	}
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "No errors to report.\n", Render(nil, diagnostics.SeverityError))
	assert.Equal(t, "No warnings to report.\n", Render([]diagnostics.Diagnostic{}, diagnostics.SeverityWarning))
}

func TestRender_FirstSeenCategoryOrder(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		diag("A", 1, "first"),
		diag("B", 2, "second"),
		diag("A", 3, "third"),
	}

	out := Render(diags, diagnostics.SeverityError)

	a := strings.Index(out, "### A (2 occurrences)")
	b := strings.Index(out, "### B (1 occurrence)")
	assert.GreaterOrEqual(t, a, 0)
	assert.Greater(t, b, a)
	assert.Less(t, strings.Index(out, "**Line 3**"), b, "all A entries precede the B heading")
}

func TestRender_Entry(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		diag("Compilation Error", 2, "bar", "foo", "error CS1061: bar", "\tbaz  "),
	}

	out := Render(diags, diagnostics.SeverityError)

	expected := "## Unity Build Error Summary\n\n" +
		"### Compilation Error (1 occurrence)\n\n" +
		"- **Line 2**: bar\n" +
		"  ```\n" +
		"  foo\n" +
		"  error CS1061: bar\n" +
		"  \tbaz  \n" +
		"  ```\n\n"
	assert.Equal(t, expected, out)
}

func TestRender_Deterministic(t *testing.T) {
	var diags []diagnostics.Diagnostic
	for i, c := range []string{"Z", "Y", "X", "Y", "W", "Z"} {
		diags = append(diags, diag(c, i+1, c))
	}

	first := Render(diags, diagnostics.SeverityError)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Render(diags, diagnostics.SeverityError))
	}
}

func TestRender_FenceLongerThanContent(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		diag("Odd", 1, "fence", "before ```` after"),
	}

	out := Render(diags, diagnostics.SeverityError)

	assert.Contains(t, out, "  `````\n  before ```` after\n  `````\n")
}

func TestFenceLength(t *testing.T) {
	assert.Equal(t, 3, fenceLength(nil))
	assert.Equal(t, 3, fenceLength([]string{"a ` b `` c"}))
	assert.Equal(t, 4, fenceLength([]string{"```"}))
}

func TestCountLine(t *testing.T) {
	assert.Equal(t, "Found 2 warnings during the build.",
		CountLine(make([]diagnostics.Diagnostic, 2), diagnostics.SeverityWarning))
	assert.Equal(t, "Found 0 errors during the build.", CountLine(nil, diagnostics.SeverityError))
}
