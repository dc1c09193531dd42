// Package metrics exposes Prometheus instrumentation for pricebars.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the chart server.
type Metrics struct {
	Registry *prometheus.Registry

	RendersTotal   *prometheus.CounterVec   // labels: kind, format
	RenderDuration *prometheus.HistogramVec // labels: kind
	RenderErrors   *prometheus.CounterVec   // labels: kind

	PointerEvents *prometheus.CounterVec // labels: source, state
	WSConnections prometheus.Gauge

	DatasetReloads *prometheus.CounterVec // labels: result
	DatasetBars    prometheus.Gauge
	SeriesLength   prometheus.Gauge

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewMetrics registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricebars_renders_total",
			Help: "Total charts rendered",
		}, []string{"kind", "format"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pricebars_render_duration_seconds",
			Help:    "Time spent rendering a chart",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"kind"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricebars_render_errors_total",
			Help: "Total failed renders",
		}, []string{"kind"}),
		PointerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricebars_pointer_events_total",
			Help: "Pointer-move events by source and resulting hover state",
		}, []string{"source", "state"}),
		WSConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricebars_ws_connections",
			Help: "Open pointer WebSocket connections",
		}),
		DatasetReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricebars_dataset_reloads_total",
			Help: "Dataset reload attempts by result",
		}, []string{"result"}),
		DatasetBars: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricebars_dataset_bars",
			Help: "Rows in the loaded dataset",
		}),
		SeriesLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricebars_series_length",
			Help: "Bars in the sampled series",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricebars_render_cache_hits_total",
			Help: "Render cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricebars_render_cache_misses_total",
			Help: "Render cache misses",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RendersTotal,
		m.RenderDuration,
		m.RenderErrors,
		m.PointerEvents,
		m.WSConnections,
		m.DatasetReloads,
		m.DatasetBars,
		m.SeriesLength,
		m.CacheHits,
		m.CacheMisses,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
