package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cloudposse/buildcheck/pkg/schema"
)

// Func represents a function that can be retried.
type Func func() error

// Executor runs a function up to a fixed number of attempts. Attempts are
// strictly sequential.
type Executor struct {
	config  schema.RetryConfig
	rand    *rand.Rand
	onRetry func(attempt int, err error, delay time.Duration)
}

// Option configures an Executor.
type Option func(*Executor)

// WithOnRetry registers a callback invoked after every failed attempt that
// will be followed by another one.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(e *Executor) {
		e.onRetry = fn
	}
}

// New creates a new retry executor with the given config.
func New(config schema.RetryConfig, opts ...Option) *Executor {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	e := &Executor{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxAttemptsError is returned when every attempt failed.
type MaxAttemptsError struct {
	Attempts int
	Last     error
}

func (e *MaxAttemptsError) Error() string {
	return fmt.Sprintf("max attempts (%d) exceeded, last error: %v", e.Attempts, e.Last)
}

func (e *MaxAttemptsError) Unwrap() error {
	return e.Last
}

// Execute runs fn, retrying on any error.
func (e *Executor) Execute(ctx context.Context, fn Func) error {
	return e.ExecuteWithPredicate(ctx, fn, RetryOnAnyError)
}

// ExecuteWithPredicate runs fn until it succeeds, shouldRetry rejects the
// error, or MaxAttempts is reached. Errors rejected by shouldRetry are
// returned unwrapped.
func (e *Executor) ExecuteWithPredicate(ctx context.Context, fn Func, shouldRetry func(error) bool) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !shouldRetry(err) {
			return err
		}

		if attempt >= e.config.MaxAttempts {
			return &MaxAttemptsError{Attempts: attempt, Last: err}
		}

		delay := e.calculateDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		if delay <= 0 {
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
			}
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

const jitterFlipChance = 0.5

// calculateDelay calculates the delay for the next retry attempt.
func (e *Executor) calculateDelay(attempt int) time.Duration {
	var delay time.Duration

	switch e.config.BackoffStrategy {
	case schema.BackoffLinear:
		delay = time.Duration(float64(e.config.InitialDelay) * float64(attempt))
	case schema.BackoffExponential:
		multiplier := e.config.Multiplier
		if multiplier <= 0 {
			multiplier = 2.0
		}
		delay = time.Duration(float64(e.config.InitialDelay) * math.Pow(multiplier, float64(attempt-1)))
	default:
		delay = e.config.InitialDelay
	}

	if e.config.MaxDelay > 0 && delay > e.config.MaxDelay {
		delay = e.config.MaxDelay
	}

	if e.config.RandomJitter && delay > 0 {
		jitter := time.Duration(e.rand.Float64() * float64(delay) * 0.1) // 10% jitter
		if e.rand.Float64() < jitterFlipChance {
			delay += jitter
		} else {
			delay -= jitter
		}
		if delay < 0 {
			delay = 0
		}
	}

	return delay
}

// Do is a convenience function that creates an executor and runs fn.
func Do(ctx context.Context, config *schema.RetryConfig, fn Func) error {
	if config == nil {
		temp := DefaultConfig()
		config = &temp
	}
	return New(*config).Execute(ctx, fn)
}

const (
	// DefaultMaxAttempts is the initial attempt plus four retries.
	DefaultMaxAttempts  = 5
	defaultInitialDelay = 2 * time.Second
	defaultMaxDelay     = 30 * time.Second
)

// DefaultConfig returns the delivery retry configuration.
func DefaultConfig() schema.RetryConfig {
	return schema.RetryConfig{
		MaxAttempts:     DefaultMaxAttempts,
		BackoffStrategy: schema.BackoffExponential,
		InitialDelay:    defaultInitialDelay,
		MaxDelay:        defaultMaxDelay,
		Multiplier:      2.0,
		RandomJitter:    true,
	}
}

// RetryOnAnyError retries on any error.
var RetryOnAnyError = func(error) bool { return true }
