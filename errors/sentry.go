package errors

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"

	"github.com/cloudposse/buildcheck/pkg/schema"
)

// CloseSentryTimeout bounds how long pending events are flushed on shutdown.
const CloseSentryTimeout = 2 * time.Second

var sentryEnabled bool

// InitializeSentry configures the global Sentry hub. It is a no-op when
// reporting is disabled.
func InitializeSentry(config *schema.SentryConfig) error {
	if config == nil || !config.Enabled {
		return nil
	}

	sampleRate := config.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.DSN,
		Environment:      config.Environment,
		Release:          config.Release,
		Debug:            config.Debug,
		SampleRate:       sampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		for key, value := range config.Tags {
			scope.SetTag(key, value)
		}
	})
	sentryEnabled = true
	return nil
}

// CloseSentry flushes pending events.
func CloseSentry() {
	if sentryEnabled {
		sentry.Flush(CloseSentryTimeout)
	}
}

// CaptureError sends err to Sentry. Only safe details and hints are reported;
// build log content never leaves the job.
func CaptureError(err error) {
	if err == nil || !sentryEnabled {
		return
	}

	event, extraDetails := errors.BuildSentryReport(err)
	hub := sentry.CurrentHub()
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range extraDetails {
			if contextMap, ok := value.(map[string]interface{}); ok {
				scope.SetContext(key, contextMap)
			}
		}

		for _, hint := range errors.GetAllHints(err) {
			scope.AddBreadcrumb(&sentry.Breadcrumb{
				Type:     "info",
				Category: "hint",
				Message:  hint,
				Level:    sentry.LevelInfo,
			}, 100)
		}

		if exitCode := GetExitCode(err); exitCode > 1 {
			if event.Tags == nil {
				event.Tags = map[string]string{}
			}
			event.Tags["buildcheck.exit_code"] = fmt.Sprintf("%d", exitCode)
		}

		hub.CaptureEvent(event)
	})
}
