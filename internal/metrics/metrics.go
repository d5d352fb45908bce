// Package metrics provides Prometheus metrics for the chemlab server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// File ingestion outcomes.
const (
	StatusOK           = "ok"
	StatusParseFailure = "parse_failure"
	StatusRejected     = "rejected"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chemlab_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chemlab_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Workspace metrics
	directoriesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chemlab_directories_created_total",
			Help: "Total directories created in this process",
		},
	)

	filesIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chemlab_files_ingested_total",
			Help: "Total file ingestion attempts by outcome",
		},
		[]string{"status"},
	)

	searchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chemlab_searches_total",
			Help: "Total searches performed",
		},
	)

	searchHits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chemlab_search_hits",
			Help:    "Number of files matched per search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	workspaceDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chemlab_workspace_directories",
			Help: "Number of directories in the workspace",
		},
	)

	workspaceFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chemlab_workspace_files",
			Help: "Number of files in the workspace",
		},
	)

	rateLimitHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chemlab_rate_limit_hits_total",
			Help: "Total rate limit rejections (429s)",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric. route should be the
// route pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDirectoryCreated counts a directory insertion.
func RecordDirectoryCreated() {
	directoriesCreatedTotal.Inc()
}

// RecordFileIngested counts a file ingestion attempt with its outcome.
func RecordFileIngested(status string) {
	filesIngestedTotal.WithLabelValues(status).Inc()
}

// RecordSearch counts a search and the number of files it matched.
func RecordSearch(hits int) {
	searchesTotal.Inc()
	searchHits.Observe(float64(hits))
}

// SetWorkspaceSize updates the directory and file gauges.
func SetWorkspaceSize(directories, files int) {
	workspaceDirectories.Set(float64(directories))
	workspaceFiles.Set(float64(files))
}

// RecordRateLimitHit counts a rejected request.
func RecordRateLimitHit() {
	rateLimitHitsTotal.Inc()
}
