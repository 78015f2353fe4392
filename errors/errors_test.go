package errors

import (
	"fmt"
	"os/exec"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: 0},
		{name: "plain error", err: errors.New("boom"), expected: 1},
		{name: "exit code error", err: ExitCodeError{Code: 3}, expected: 3},
		{name: "wrapped exit code error", err: fmt.Errorf("build: %w", ExitCodeError{Code: 42}), expected: 42},
		{name: "with exit code", err: WithExitCode(errors.New("boom"), 7), expected: 7},
		{name: "builder exit code", err: Build(errors.New("boom")).WithExitCode(9).Err(), expected: 9},
		{name: "exec exit error", err: &exec.ExitError{}, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetExitCode(tt.err))
		})
	}
}

func TestWithExitCode_Nil(t *testing.T) {
	assert.NoError(t, WithExitCode(nil, 2))
}

func TestMarkConfig(t *testing.T) {
	err := MarkConfig(ErrAsyncWorkflowNotFound)

	assert.True(t, IsConfigError(err))
	assert.ErrorIs(t, err, ErrAsyncWorkflowNotFound)
	assert.ErrorIs(t, err, ErrCheckRunConfig)
	assert.NoError(t, MarkConfig(nil))
}

func TestIsConfigError_TransientErrors(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrCheckRunCreateFailed, errors.New("502 Bad Gateway"))

	assert.False(t, IsConfigError(err))
}

func TestBuild_Nil(t *testing.T) {
	assert.NoError(t, Build(nil).WithHint("ignored").Err())
}

func TestBuild_PreservesSentinel(t *testing.T) {
	err := Build(ErrLogPathAllocationExhausted).
		WithHint("Remove stale unity-build.*.log files").
		WithContext("attempts", 5).
		Err()

	assert.ErrorIs(t, err, ErrLogPathAllocationExhausted)
	assert.Contains(t, errors.GetAllHints(err), "Remove stale unity-build.*.log files")
}
