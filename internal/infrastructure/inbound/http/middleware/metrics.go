package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	ports "feed-service/internal/domain/ports/output"
)

// Metrics records request count and duration labelled by the matched chi
// route pattern, so post ids never become label values.
func Metrics(metrics ports.MetricsProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newStatusRecorder(w)

			next.ServeHTTP(wrapped, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := strconv.Itoa(wrapped.statusCode)

			metrics.IncrementHTTPRequests(r.Method, route, status)
			metrics.RecordHTTPRequestDuration(r.Method, route, status, time.Since(start))
		})
	}
}
