package telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/dukerupert/nursery/internal"
	"github.com/dukerupert/nursery/internal/domain"
)

const flushTimeout = 2 * time.Second

// sentryEnabled is set by InitSentry once a client is configured.
var sentryEnabled bool

// InitSentry configures Sentry for one batch run. The returned cleanup flushes
// buffered events and must run before the process exits.
func InitSentry(cfg internal.SentryConfig, logger zerolog.Logger) (func(), error) {
	sentryEnabled = false
	noop := func() {}

	if !cfg.Enabled {
		logger.Debug().Msg("Sentry disabled")
		return noop, nil
	}
	if cfg.DSN == "" {
		logger.Warn().Msg("Sentry DSN not configured, run errors will not be reported")
		return noop, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		SampleRate:  sampleRate,
		Debug:       cfg.Debug,
	})
	if err != nil {
		return nil, domain.Internal(err, "telemetry.init_sentry", "failed to initialize Sentry")
	}
	sentryEnabled = true

	logger.Debug().
		Str("environment", cfg.Environment).
		Float64("sample_rate", sampleRate).
		Msg("Sentry initialized")

	return func() { sentry.Flush(flushTimeout) }, nil
}

// IsEnabled reports whether run errors are sent to Sentry.
func IsEnabled() bool {
	return sentryEnabled
}

// CaptureRunError reports a failed batch run. Events are tagged with the
// command, the run id and, for domain errors, the error code and op.
func CaptureRunError(err error, command, runID string, extras map[string]interface{}) {
	if !sentryEnabled || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("command", command)
		scope.SetTag("run_id", runID)
		scope.SetTag("error_code", domain.ErrorCode(err))
		if op := domain.ErrorOp(err); op != "" {
			scope.SetTag("op", op)
		}
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		sentry.CaptureException(err)
	})
}

// AddBreadcrumb records a step of the current run.
func AddBreadcrumb(category, message string, data map[string]interface{}) {
	if !sentryEnabled {
		return
	}

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category: category,
		Message:  message,
		Data:     data,
		Level:    sentry.LevelInfo,
	})
}

// RecoverWithSentry reports a panic and re-panics.
// Use: defer telemetry.RecoverWithSentry()
func RecoverWithSentry() {
	if r := recover(); r != nil {
		if sentryEnabled {
			sentry.CurrentHub().Recover(r)
			sentry.Flush(flushTimeout)
		}
		panic(r)
	}
}
