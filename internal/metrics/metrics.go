package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neodash_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neodash_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neodash_feed_requests_total",
			Help: "Requests sent to the NeoWs feed, by response status code (\"error\" when no response).",
		},
		[]string{"code"},
	)

	upstreamDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "neodash_feed_duration_seconds",
			Help:    "NeoWs feed round trip duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "neodash_cache_hits_total",
		Help: "Feed cache lookups served from a fresh entry.",
	})

	cacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "neodash_cache_misses_total",
		Help: "Feed cache lookups with no entry or an expired one.",
	})

	cacheEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "neodash_cache_evictions_total",
		Help: "Feed cache entries removed by the sweeper or the size cap.",
	})

	cacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "neodash_cache_entries",
		Help: "Number of dates currently held in the feed cache.",
	})

	sharedFetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "neodash_feed_shared_fetches_total",
		Help: "Lookups that joined an in-flight fetch for the same date.",
	})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(upstreamRequestsTotal)
	prometheus.MustRegister(upstreamDurationSeconds)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
	prometheus.MustRegister(cacheEvictionsTotal)
	prometheus.MustRegister(cacheEntries)
	prometheus.MustRegister(sharedFetchesTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// knownRoutes are the only path labels recorded verbatim.
var knownRoutes = map[string]bool{
	"/":              true,
	"/health":        true,
	"/healthz":       true,
	"/readyz":        true,
	"/metrics":       true,
	"/api/asteroids": true,
	"/static/":       true,
}

// normalizeRoute maps a request path to a bounded set of metric labels.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/"
	}
	return "other"
}

// ObserveUpstream records one feed round trip. Pass code 0 when no response
// was received.
func ObserveUpstream(code int, d time.Duration) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	upstreamRequestsTotal.WithLabelValues(label).Inc()
	upstreamDurationSeconds.Observe(d.Seconds())
}

func IncCacheHits()           { cacheHitsTotal.Inc() }
func IncCacheMisses()         { cacheMissesTotal.Inc() }
func AddCacheEvictions(n int) { cacheEvictionsTotal.Add(float64(n)) }
func SetCacheEntries(n int)   { cacheEntries.Set(float64(n)) }
func IncSharedFetches()       { sharedFetchesTotal.Inc() }

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
