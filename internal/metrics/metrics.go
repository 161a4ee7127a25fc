package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage result label values
const (
	ResultOK       = "ok"
	ResultFallback = "fallback"
	ResultSkipped  = "skipped"
)

// Pipeline stage metrics
var (
	StageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagehost_stage_total",
			Help: "Total number of stage executions by outcome",
		},
		[]string{"stage", "result"}, // result: "ok", "fallback", "skipped"
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imagehost_stage_duration_seconds",
			Help:    "Stage execution duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"stage"},
	)

	StageBytesSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagehost_stage_bytes_saved_total",
			Help: "Bytes removed from artifacts by successful stages",
		},
		[]string{"stage"},
	)
)

// Capability probe metrics
var (
	ProbeResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagehost_probe_results_total",
			Help: "Total number of target format capability probes by result",
		},
		[]string{"result"}, // "supported", "unsupported"
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "imagehost_probe_duration_seconds",
			Help:    "Capability probe duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
	)
)

// Batch scheduler metrics
var (
	BatchItemsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imagehost_batch_items_total",
			Help: "Total number of items returned by the batch scheduler",
		},
	)

	BatchGroupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imagehost_batch_groups_total",
			Help: "Total number of item groups completed",
		},
	)

	BatchGroupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "imagehost_batch_group_duration_seconds",
			Help:    "Wall time to complete one group of items",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	BatchItemsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "imagehost_batch_items_in_flight",
			Help: "Number of items currently being transcoded",
		},
	)

	BatchBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagehost_batch_bytes_total",
			Help: "Bytes entering and leaving the batch scheduler",
		},
		[]string{"direction"}, // "in", "out"
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "imagehost_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)

	VipsAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "imagehost_vips_available",
			Help: "Whether libvips is initialized (1 = available, 0 = unavailable)",
		},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}

// HTTP metrics for the operational server
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagehost_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imagehost_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "imagehost_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imagehost_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagehost_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagehost_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagehost_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)
)
