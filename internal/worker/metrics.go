package worker

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry             *prometheus.Registry
	jobsTotal            *prometheus.CounterVec
	jobDuration          *prometheus.HistogramVec
	activeJobs           prometheus.Gauge
	bridgeInFlight       prometheus.GaugeFunc
	effectsTotal         *prometheus.CounterVec
	pixelsProcessedTotal prometheus.Counter
	computeTimeMSTotal   prometheus.Counter
}

func newMetrics(inFlight func() float64) *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if inFlight == nil {
		inFlight = func() float64 { return 0 }
	}

	m := &metrics{
		registry: registry,
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rasterfx_worker_jobs_total",
			Help: "Total worker jobs by source type and final status.",
		}, []string{"source_type", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rasterfx_worker_job_duration_seconds",
			Help:    "Total processing duration for each worker job.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source_type", "status"}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rasterfx_worker_active_jobs",
			Help: "Current number of active processing jobs in the worker.",
		}),
		bridgeInFlight: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "rasterfx_bridge_in_flight_jobs",
			Help: "Jobs registered in the dispatch bridge awaiting outcomes.",
		}, inFlight),
		effectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rasterfx_worker_effects_total",
			Help: "Total effects applied, by effect tag.",
		}, []string{"effect"}),
		pixelsProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rasterfx_usage_pixels_processed_total",
			Help: "Total pixels processed across all successful jobs.",
		}),
		computeTimeMSTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rasterfx_usage_compute_time_ms_total",
			Help: "Total compute time in milliseconds across successful jobs.",
		}),
	}

	registry.MustRegister(
		m.jobsTotal,
		m.jobDuration,
		m.activeJobs,
		m.bridgeInFlight,
		m.effectsTotal,
		m.pixelsProcessedTotal,
		m.computeTimeMSTotal,
	)
	return m
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
