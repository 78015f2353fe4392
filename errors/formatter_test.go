package errors

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestDefaultFormatterConfig(t *testing.T) {
	config := DefaultFormatterConfig()

	assert.False(t, config.Verbose)
	assert.Equal(t, "auto", config.Color)
	assert.Equal(t, 80, config.MaxLineLength)
}

func TestFormat_NilError(t *testing.T) {
	assert.Empty(t, Format(nil, DefaultFormatterConfig()))
}

func TestFormat_ErrorWithHints(t *testing.T) {
	err := errors.WithHint(
		errors.WithHint(errors.New("check run delivery failed"), "Verify GITHUB_TOKEN has checks:write"),
		"Re-run the job",
	)

	result := Format(err, FormatterConfig{Color: "never", MaxLineLength: 80})

	assert.Contains(t, result, "check run delivery failed")
	assert.Contains(t, result, "hint: Verify GITHUB_TOKEN has checks:write")
	assert.Contains(t, result, "hint: Re-run the job")
}

func TestFormat_WrapsLongMessages(t *testing.T) {
	err := errors.New(strings.Repeat("word ", 40))

	result := Format(err, FormatterConfig{Color: "never", MaxLineLength: 20})

	for _, line := range strings.Split(result, "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}
}

func TestFormat_VerboseIncludesContext(t *testing.T) {
	err := Build(errors.New("allocation failed")).
		WithContext("attempts", 5).
		Err()

	result := Format(err, FormatterConfig{Verbose: true, Color: "never", MaxLineLength: 80})

	assert.Contains(t, result, "Context")
	assert.Contains(t, result, "attempts")
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{name: "fits", text: "short text", width: 80, expected: "short text"},
		{name: "wraps", text: "aaa bbb ccc", width: 7, expected: "aaa bbb\nccc"},
		{name: "zero width uses default", text: "a b", width: 0, expected: "a b"},
		{name: "empty", text: "", width: 10, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, wrapText(tt.text, tt.width))
		})
	}
}
