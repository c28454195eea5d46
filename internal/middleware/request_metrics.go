package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mirojov/clubhub/internal/telemetry/metrics"

	"github.com/gorilla/mux"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func RequestMetrics(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			routeName := "unknown"
			if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
				routeName = route.GetName()
			}

			statusStr := strconv.Itoa(rec.status)
			metricsManager.CounterRequests.
				WithLabelValues(r.Method, statusStr).Inc()
			metricsManager.HistogramRequestDuration.
				WithLabelValues(routeName, r.Method, statusStr).
				Observe(time.Since(start).Seconds())
		})
	}
}
