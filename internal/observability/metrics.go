// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "agriwatch"

// Metrics holds the Prometheus collectors for weather lookups, classification and the
// regional snapshot.
type Metrics struct {
	WeatherRequests  *prometheus.CounterVec // labels: provider, outcome={success,error}
	WeatherFallbacks prometheus.Counter
	WeatherCache     *prometheus.CounterVec // labels: result={hit,miss}
	Classifications  *prometheus.CounterVec // labels: category

	RegionalBuildDuration prometheus.Histogram
	RegionalRows          prometheus.Gauge
	SnapshotExports       *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.WeatherRequests,
		m.WeatherFallbacks,
		m.WeatherCache,
		m.Classifications,
		m.RegionalBuildDuration,
		m.RegionalRows,
		m.SnapshotExports,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can create as
// many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Weather provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		WeatherFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_fallbacks_total",
			Help:      "Weather lookups answered by the mock fallback.",
		}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Condition classifications by risk category.",
		}, []string{"category"}),
		RegionalBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "regional_build_duration_seconds",
			Help:      "Duration of a complete regional table build.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RegionalRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "regional_rows",
			Help:      "Number of rows in the latest regional table.",
		}),
		SnapshotExports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_exports_total",
			Help:      "Regional snapshot exports by outcome.",
		}, []string{"outcome"}),
	}
}
