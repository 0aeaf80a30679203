// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// An import is a short-lived batch job, so there is no scrape endpoint:
// collectors live in a private registry that Flush pushes to a Pushgateway,
// grouped by job and by any extra grouping labels (typically the run id).
package prompush

import (
	"fmt"
	"sort"

	"steamload/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultJob is the Pushgateway job used when Config.Job is empty.
const DefaultJob = "steamload"

// Config holds Pushgateway backend configuration.
type Config struct {
	// GatewayURL is the base URL of the Pushgateway, e.g. http://pushgateway:9091.
	GatewayURL string
	// Job is the Pushgateway "job" group.
	Job string
	// Grouping adds extra grouping key labels, e.g. {"run_id": "..."}.
	Grouping map[string]string
}

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	grouping   map[string]string
	reg        *prometheus.Registry

	stepCounter   *prometheus.CounterVec // steamload_step_total
	stepDuration  *prometheus.SummaryVec // steamload_step_duration_seconds
	rowCounter    *prometheus.CounterVec // steamload_rows_total
	batchCounter  prometheus.Counter     // steamload_batches_total
	indexFailures prometheus.Counter     // steamload_index_failures_total
}

// NewBackend constructs a Prometheus Pushgateway backend.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if cfg.Job == "" {
		cfg.Job = DefaultJob
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Total number of import step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Duration of import steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Row-level counts per kind (read, inserted, duplicate, failed).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Total number of batches written by this run.",
		},
	)
	indexFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.IndexFailures,
			Help: "Secondary indexes that failed to build.",
		},
	)

	for _, c := range []struct {
		what string
		col  prometheus.Collector
	}{
		{"step counter", stepCounter},
		{"step summary", stepDuration},
		{"row counter", rowCounter},
		{"batch counter", batchCounter},
		{"index failure counter", indexFailures},
	} {
		if err := reg.Register(c.col); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", c.what, err)
		}
	}

	grouping := make(map[string]string, len(cfg.Grouping))
	for k, v := range cfg.Grouping {
		grouping[k] = v
	}

	return &Backend{
		gatewayURL:    cfg.GatewayURL,
		jobName:       cfg.Job,
		grouping:      grouping,
		reg:           reg,
		stepCounter:   stepCounter,
		stepDuration:  stepDuration,
		rowCounter:    rowCounter,
		batchCounter:  batchCounter,
		indexFailures: indexFailures,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case metrics.RowsTotal:
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)

	case metrics.BatchesTotal:
		if b.batchCounter == nil {
			return
		}
		b.batchCounter.Add(delta)

	case metrics.IndexFailures:
		if b.indexFailures == nil {
			return
		}
		b.indexFailures.Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDuration || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway, replacing any
// metrics previously pushed under the same grouping key.
func (b *Backend) Flush() error {
	p := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg)

	keys := make([]string, 0, len(b.grouping))
	for k := range b.grouping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p = p.Grouping(k, b.grouping[k])
	}

	if err := p.Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
