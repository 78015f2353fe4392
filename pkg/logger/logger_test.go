package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/buildcheck/errors"
	"github.com/cloudposse/buildcheck/pkg/schema"
)

func TestLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)
	logger.SetLevel(TraceLevel)

	logger.Trace("test trace message", "attempt", 1)

	assert.Contains(t, buf.String(), "test trace message")
	assert.Contains(t, buf.String(), "TRCE")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New()
	logger.SetOutput(&buf)
	logger.SetLevel(WarnLevel)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_GetLevelString(t *testing.T) {
	logger := New()

	logger.SetLevel(TraceLevel)
	assert.Equal(t, "trace", logger.GetLevelString())

	logger.SetLevel(DebugLevel)
	assert.Equal(t, "debug", logger.GetLevelString())

	logger.SetLevel(InfoLevel)
	assert.Equal(t, "info", logger.GetLevelString())

	logger.SetLevel(LogLevelOff.ToLevel())
	assert.Equal(t, "off", logger.GetLevelString())
}

func TestPackageLevelFunctions(t *testing.T) {
	oldLogger := Default()
	defer SetDefault(oldLogger)

	var buf bytes.Buffer
	testLogger := New()
	testLogger.SetOutput(&buf)
	testLogger.SetLevel(TraceLevel)
	SetDefault(testLogger)

	Trace("package level trace")
	Debug("package level debug")
	Error("package level error", "err", "boom")

	assert.Contains(t, buf.String(), "package level trace")
	assert.Contains(t, buf.String(), "package level debug")
	assert.Contains(t, buf.String(), "boom")
}

func TestSetDefault_IgnoresNil(t *testing.T) {
	current := Default()
	SetDefault(nil)
	assert.Same(t, current, Default())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		hasError bool
	}{
		{"Trace", LogLevelTrace, false},
		{"debug", LogLevelDebug, false},
		{"Info", LogLevelInfo, false},
		{"WARNING", LogLevelWarning, false},
		{"Error", LogLevelError, false},
		{"Off", LogLevelOff, false},
		{"", LogLevelInfo, false},
		{"Invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLogLevel(tt.input)
			if tt.hasError {
				assert.ErrorIs(t, err, errUtils.ErrInvalidLogLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestConfigure_File(t *testing.T) {
	oldLogger := Default()
	defer SetDefault(oldLogger)
	SetDefault(New())

	logFile := filepath.Join(t.TempDir(), "buildcheck.log")
	require.NoError(t, Configure(schema.Logs{Level: "Debug", File: logFile}))

	Debug("written to file")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Equal(t, DebugLevel, GetLevel())
}

func TestConfigure_InvalidLevel(t *testing.T) {
	err := Configure(schema.Logs{Level: "Loud"})
	assert.ErrorIs(t, err, errUtils.ErrInvalidLogLevel)
}
