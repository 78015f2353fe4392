package logpath

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/buildcheck/errors"
)

// sequence returns a suffix func yielding p1, p2, ...
func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

func TestAllocate_FirstCandidate(t *testing.T) {
	a := New("/work", WithFs(afero.NewMemMapFs()), WithSuffixFunc(sequence()))

	path, err := a.Allocate("build-android")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "unity-build.build-android.p1.log"), path)
}

func TestAllocate_SkipsExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	for i := 1; i <= 4; i++ {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/work", fmt.Sprintf("unity-build.job.p%d.log", i)), nil, 0o644))
	}
	a := New("/work", WithFs(fs), WithSuffixFunc(sequence()))

	path, err := a.Allocate("job")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "unity-build.job.p5.log"), path)

	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.False(t, exists, "allocation does not create the file")
}

func TestAllocate_Exhausted(t *testing.T) {
	fs := afero.NewMemMapFs()
	for i := 1; i <= 5; i++ {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/work", fmt.Sprintf("unity-build.job.p%d.log", i)), nil, 0o644))
	}
	calls := 0
	suffix := sequence()
	a := New("/work", WithFs(fs), WithSuffixFunc(func() string {
		calls++
		return suffix()
	}))

	_, err := a.Allocate("job")
	assert.ErrorIs(t, err, errUtils.ErrLogPathAllocationExhausted)
	assert.Equal(t, 5, calls)
}

func TestAllocate_MaxAttempts(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/unity-build.job.same.log", nil, 0o644))
	a := New("/work", WithFs(fs), WithSuffixFunc(func() string { return "same" }), WithMaxAttempts(2))

	_, err := a.Allocate("job")
	assert.ErrorIs(t, err, errUtils.ErrLogPathAllocationExhausted)
}

// deniedFs fails every stat with a permission error.
type deniedFs struct {
	afero.Fs
}

func (deniedFs) Stat(string) (os.FileInfo, error) {
	return nil, os.ErrPermission
}

func TestAllocate_StatFailure(t *testing.T) {
	calls := 0
	a := New("/work", WithFs(deniedFs{afero.NewMemMapFs()}), WithSuffixFunc(func() string {
		calls++
		return "p1"
	}))

	_, err := a.Allocate("job")
	assert.ErrorIs(t, err, errUtils.ErrLogPathAllocation)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.NotErrorIs(t, err, errUtils.ErrLogPathAllocationExhausted)
	assert.Equal(t, 1, calls, "a stat failure is not retried")
}

func TestRandomSuffix(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{12}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s := RandomSuffix()
		assert.Regexp(t, re, s)
		seen[s] = true
	}
	assert.Len(t, seen, 100)
}

func TestSanitizeJobKey(t *testing.T) {
	tests := map[string]string{
		"":                "job",
		"   ":             "job",
		"build-ios":       "build-ios",
		"build ios":       "build-ios",
		"matrix/windows":  "matrix-windows",
		`a\b:c`:           "a-b-c",
		" /leading/slash": "leading-slash",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, SanitizeJobKey(in), in)
	}
}
