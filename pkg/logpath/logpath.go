// Package logpath allocates collision-free build log paths.
package logpath

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	errUtils "github.com/cloudposse/buildcheck/errors"
	log "github.com/cloudposse/buildcheck/pkg/logger"
)

const (
	// DefaultMaxAttempts bounds the number of candidate paths tried.
	DefaultMaxAttempts = 5

	suffixLength  = 12
	defaultJobKey = "job"
)

var unsafeJobKeyChars = regexp.MustCompile(`[\s/\\:]+`)

// Allocator picks log file paths under a project root.
type Allocator struct {
	root        string
	fs          afero.Fs
	suffix      func() string
	maxAttempts int
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithFs sets the filesystem used for existence checks.
func WithFs(fs afero.Fs) Option {
	return func(a *Allocator) {
		a.fs = fs
	}
}

// WithSuffixFunc sets the random suffix source.
func WithSuffixFunc(fn func() string) Option {
	return func(a *Allocator) {
		a.suffix = fn
	}
}

// WithMaxAttempts sets the number of candidates tried before giving up.
func WithMaxAttempts(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// New creates an allocator rooted at root.
func New(root string, opts ...Option) *Allocator {
	a := &Allocator{
		root:        root,
		fs:          afero.NewOsFs(),
		suffix:      RandomSuffix,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RandomSuffix returns 12 random hex characters.
func RandomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLength]
}

// Allocate returns <root>/unity-build.<jobKey>.<suffix>.log for the first
// suffix whose path does not exist yet. The file itself is not created.
func (a *Allocator) Allocate(jobKey string) (string, error) {
	key := SanitizeJobKey(jobKey)

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		candidate := filepath.Join(a.root, fmt.Sprintf("unity-build.%s.%s.log", key, a.suffix()))

		exists, err := afero.Exists(a.fs, candidate)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", errUtils.ErrLogPathAllocation, candidate, err)
		}
		if !exists {
			log.Debug("Allocated build log path", "path", candidate, "attempt", attempt)
			return candidate, nil
		}
		log.Debug("Build log path already exists", "path", candidate, "attempt", attempt)
	}

	return "", errUtils.Build(fmt.Errorf("%w: %d candidates under %s already exist", errUtils.ErrLogPathAllocationExhausted, a.maxAttempts, a.root)).
		WithHint("Remove stale unity-build.*.log files from the project root").
		Err()
}

// SanitizeJobKey replaces whitespace and path separators with '-'. An empty
// key becomes "job".
func SanitizeJobKey(jobKey string) string {
	key := strings.Trim(unsafeJobKeyChars.ReplaceAllString(strings.TrimSpace(jobKey), "-"), "-")
	if key == "" {
		return defaultJobKey
	}
	return key
}
