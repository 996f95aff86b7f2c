package middleware

import (
	"net/http"
	"time"

	"github.com/heartmarshall/apptracker/internal/observability"
)

// Metrics records request counts and latency per route pattern. It must wrap
// the ServeMux directly so the matched pattern is visible after dispatch.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			observability.ObserveHTTPRequest(r.Method, route, sw.status, time.Since(start))
		})
	}
}
