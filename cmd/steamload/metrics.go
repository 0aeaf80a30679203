package main

import (
	"log"

	"steamload/internal/config"
	"steamload/internal/etl"
	"steamload/internal/metrics"
	"steamload/internal/metrics/datadog"
	"steamload/internal/metrics/prompush"
)

// setupMetrics installs the configured metrics backend and returns the
// function that flushes it at exit. A backend that fails to initialize is
// logged and replaced by the no-op backend.
func setupMetrics(cfg config.Config, runID string) (flush func()) {
	var (
		b   metrics.Backend
		err error
	)

	switch cfg.Metrics.Backend {
	case config.MetricsPrometheus:
		b, err = newPromBackend(cfg, runID)
		if err == nil {
			log.Printf("metrics: backend=prometheus url=%s job=%s run_id=%s", cfg.Metrics.PushgatewayURL, etl.Job, runID)
		}
	case config.MetricsDatadog:
		b, err = newDatadogBackend(cfg, runID)
		if err == nil {
			log.Printf("metrics: backend=datadog addr=%s run_id=%s", cfg.Metrics.DogStatsDAddr, runID)
		}
	case "", config.MetricsNone:
		if cfg.Verbose {
			log.Printf("metrics: disabled")
		}
		return func() {}
	default:
		log.Printf("WARN metrics: unknown backend %q; metrics disabled", cfg.Metrics.Backend)
		return func() {}
	}

	if err != nil {
		log.Printf("WARN metrics: failed to init %s backend: %v; using nop", cfg.Metrics.Backend, err)
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("WARN metrics: flush error: %v", err)
		}
	}
}

// The constructors return the interface explicitly so a failed constructor
// never yields a typed nil backend.
func newPromBackend(cfg config.Config, runID string) (metrics.Backend, error) {
	b, err := prompush.NewBackend(prompush.Config{
		GatewayURL: cfg.Metrics.PushgatewayURL,
		Job:        etl.Job,
		Grouping:   map[string]string{"run_id": runID},
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func newDatadogBackend(cfg config.Config, runID string) (metrics.Backend, error) {
	b, err := datadog.NewBackend(datadog.Config{
		Addr:       cfg.Metrics.DogStatsDAddr,
		GlobalTags: []string{"service:steamload", "run_id:" + runID},
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
