package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/krzysztofcal/chipledger/internal/infrastructure/metrics"
)

// MetricsMiddleware records per-request counters and latency histograms.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics recording.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// idSegments marks path prefixes whose next segment is an identifier.
// Identifiers are collapsed to :id to keep label cardinality bounded.
var idSegments = map[string]bool{
	"/api/v1/accounts":     true,
	"/api/v1/transactions": true,
	"/api/v1/users":        true,
}

// normalizePath collapses identifier segments so every account, user, and
// transaction maps to one label value.
func normalizePath(path string) string {
	for prefix := range idSegments {
		rest, ok := strings.CutPrefix(path, prefix+"/")
		if !ok || rest == "" {
			continue
		}

		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return prefix + "/:id" + rest[i:]
		}

		return prefix + "/:id"
	}

	return path
}
