package telemetry_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/nursery/internal"
	"github.com/dukerupert/nursery/internal/telemetry"
)

func Test_BatchMetrics_Finish(t *testing.T) {
	m := telemetry.NewBatchMetrics("", "import")

	m.RecordsDecoded.WithLabelValues("editable").Add(3)
	m.RecordsInserted.Inc()
	m.RecordsUpdated.Add(2)
	m.Finish(nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsDecoded.WithLabelValues("editable")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RunFailed))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccess), 0.0)

	m.Finish(errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunFailed))

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func Test_BatchMetrics_PushWithoutURL(t *testing.T) {
	m := telemetry.NewBatchMetrics("nursery", "export")
	assert.NoError(t, m.Push(context.Background(), ""))
}

func Test_InitSentry_Disabled(t *testing.T) {
	cleanup, err := telemetry.InitSentry(internal.SentryConfig{Enabled: false}, zerolog.New(io.Discard))
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	cleanup()

	assert.False(t, telemetry.IsEnabled())
	telemetry.CaptureRunError(errors.New("ignored"), "import", "run", nil)
}

func Test_InitSentry_MissingDSN(t *testing.T) {
	_, err := telemetry.InitSentry(internal.SentryConfig{Enabled: true}, zerolog.New(io.Discard))
	require.NoError(t, err)
	assert.False(t, telemetry.IsEnabled())
}
