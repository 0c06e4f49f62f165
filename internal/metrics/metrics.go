// Package metrics holds the Prometheus instruments for calculations,
// normalization and live discovery. Every Recorder owns a private registry.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "mccost"

// Recorder holds all metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	Calculations        *prometheus.CounterVec
	CalculationDuration prometheus.Histogram
	NormalizedResources *prometheus.CounterVec
	DiscoveredResources *prometheus.CounterVec
	DiscoveryFailures   *prometheus.CounterVec
	DiscoveryDuration   *prometheus.HistogramVec
}

// New creates a Recorder with all metrics registered on a fresh registry
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Pricing calculations by outcome",
		}, []string{"status"}),
		CalculationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Wall time of one four-provider calculation",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		NormalizedResources: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalized_resources_total",
			Help:      "Unified resources produced, by source",
		}, []string{"source"}),
		DiscoveredResources: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_resources_total",
			Help:      "Resources returned by live discovery, by provider",
		}, []string{"provider"}),
		DiscoveryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_failures_total",
			Help:      "Provider scans that failed or timed out",
		}, []string{"provider"}),
		DiscoveryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "discovery_duration_seconds",
			Help:      "Wall time of one provider scan",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"provider"}),
	}
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveCalculation records one calculation outcome
func (r *Recorder) ObserveCalculation(start time.Time, err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.Calculations.WithLabelValues(status).Inc()
	r.CalculationDuration.Observe(time.Since(start).Seconds())
}

// AddNormalized counts resources produced by a normalizer
func (r *Recorder) AddNormalized(source string, n int) {
	if r == nil {
		return
	}
	r.NormalizedResources.WithLabelValues(source).Add(float64(n))
}

// ObserveDiscovery records one provider scan
func (r *Recorder) ObserveDiscovery(provider string, resources int, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.DiscoveryDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	if err != nil {
		r.DiscoveryFailures.WithLabelValues(provider).Inc()
		return
	}
	r.DiscoveredResources.WithLabelValues(provider).Add(float64(resources))
}

// WriteText dumps every gathered family in the Prometheus text format
func (r *Recorder) WriteText(w io.Writer) error {
	if r == nil {
		return nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
