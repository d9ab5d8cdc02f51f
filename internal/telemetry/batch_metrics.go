package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// BatchMetrics holds Prometheus metrics for one batch run. They live in a
// private registry that is pushed to a Pushgateway, grouped by command,
// when the run ends.
type BatchMetrics struct {
	registry *prometheus.Registry
	command  string
	started  time.Time

	// Records
	RecordsDecoded  *prometheus.CounterVec
	RecordsInserted prometheus.Counter
	RecordsUpdated  prometheus.Counter
	RecordsSkipped  prometheus.Counter

	// Assets
	AssetsPublished prometheus.Counter
	AssetsMissing   prometheus.Counter

	// Run
	RunDuration prometheus.Gauge
	RunFailed   prometheus.Gauge
	LastSuccess prometheus.Gauge
}

// NewBatchMetrics creates and registers the metrics for one command run.
func NewBatchMetrics(namespace, command string) *BatchMetrics {
	if namespace == "" {
		namespace = "nursery"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &BatchMetrics{
		registry: reg,
		command:  command,
		started:  time.Now(),

		// =======================================================================
		// Records
		// =======================================================================
		RecordsDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "records",
				Name:      "decoded_total",
				Help:      "Rows decoded from spreadsheets, by layout",
			},
			[]string{"layout"}, // layout: editable, priority, master
		),
		RecordsInserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "inserted_total",
			Help:      "Products added to the catalog",
		}),
		RecordsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "updated_total",
			Help:      "Existing products updated in the catalog",
		}),
		RecordsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "skipped_total",
			Help:      "Rows skipped because their id is not in the catalog",
		}),

		// =======================================================================
		// Assets
		// =======================================================================
		AssetsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assets",
			Name:      "published_total",
			Help:      "Image and product card files published",
		}),
		AssetsMissing: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assets",
			Name:      "missing_total",
			Help:      "Referenced asset files that could not be found",
		}),

		// =======================================================================
		// Run
		// =======================================================================
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		RunFailed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_failed",
			Help:      "1 if the last run failed, 0 otherwise",
		}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}
}

// Finish records the run outcome and duration.
func (m *BatchMetrics) Finish(err error) {
	m.RunDuration.Set(time.Since(m.started).Seconds())
	if err != nil {
		m.RunFailed.Set(1)
		return
	}
	m.RunFailed.Set(0)
	m.LastSuccess.SetToCurrentTime()
}

// Gatherer exposes the run registry, mainly for tests.
func (m *BatchMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Push sends the run metrics to a Pushgateway. An empty url is a no-op.
func (m *BatchMetrics) Push(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	err := push.New(url, "nursery").
		Grouping("command", m.command).
		Gatherer(m.registry).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
