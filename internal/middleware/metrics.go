package middleware

import (
	"net/http"
	"strconv"
	"time"

	"imagehost/internal/metrics"

	"github.com/gorilla/mux"
)

// Metrics records request counts and durations labelled by the matched
// route template, so unknown paths collapse into a single series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		wrapped := newResponseWriter(w)
		start := time.Now()

		next.ServeHTTP(wrapped, r)

		route := routeTemplate(r)
		status := strconv.Itoa(wrapped.statusCode)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
