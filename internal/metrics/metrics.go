package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Dispatcher / worker metrics

	JobPickupLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "workforce",
		Name:      "schedule_job_pickup_latency_seconds",
		Help:      "Time from job creation to the dispatcher worker picking it up.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	JobExecutionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "workforce",
		Name:      "schedule_job_execution_duration_seconds",
		Help:      "Duration of a schedule job's resolve+generate+persist pipeline.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"status"})

	JobsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workforce",
		Name:      "dispatcher_jobs_in_flight",
		Help:      "Number of schedule jobs currently being processed by the worker.",
	})

	JobsCompletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "schedule_jobs_completed_total",
		Help:      "Total schedule jobs finished, by outcome.",
	}, []string{"outcome"})

	QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workforce",
		Name:      "dispatcher_queue_depth",
		Help:      "Number of schedule jobs currently buffered in the dispatcher queue.",
	})

	ShiftAssignmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "shift_assignments_total",
		Help:      "Total shift assignments written, by shift type.",
	}, []string{"shift"})

	// Reaper metrics

	ReaperRescuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "reaper_rescued_total",
		Help:      "Total stale schedule jobs handled by the reaper.",
	}, []string{"action"})

	ReaperCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "workforce",
		Name:      "reaper_cycle_duration_seconds",
		Help:      "Time taken for one reaper sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	// Resolver / cache metrics

	ResolverCacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "resolver_cache_requests_total",
		Help:      "Resolved-membership cache lookups, by outcome.",
	}, []string{"outcome"})

	ResolverDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "workforce",
		Name:      "resolver_duration_seconds",
		Help:      "Time taken to resolve a group's membership, cache misses only.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	// Worker lifecycle

	WorkerStartTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workforce",
		Name:      "worker_start_time_seconds",
		Help:      "Unix timestamp when the dispatcher worker started.",
	})

	WorkerShutdownsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "worker_shutdowns_total",
		Help:      "Number of times the dispatcher worker has shut down.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "workforce",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		JobPickupLatency,
		JobExecutionDuration,
		JobsInFlight,
		JobsCompletedTotal,
		QueueDepth,
		ShiftAssignmentsTotal,
		ReaperRescuedTotal,
		ReaperCycleDuration,
		ResolverCacheHitsTotal,
		ResolverDuration,
		WorkerStartTime,
		WorkerShutdownsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux}
}
