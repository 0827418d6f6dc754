// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	MessagesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contact_messages_submitted_total",
		Help: "Total contact messages stored",
	})

	MessagesUpdated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contact_messages_updated_total",
		Help: "Total successful admin flag updates",
	})

	MessagesDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contact_messages_deleted_total",
		Help: "Total messages deleted by an admin",
	})

	ValidationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_validation_failures_total",
		Help: "Rejected requests by validation rule",
	}, []string{"rule"})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(MessagesSubmitted)
	prometheus.MustRegister(MessagesUpdated)
	prometheus.MustRegister(MessagesDeleted)
	prometheus.MustRegister(ValidationFailures)
}

type statusRecordingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecordingWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// InstrumentHandler records request durations. The route label is the
// ServeMux pattern that matched, so path parameters do not explode cardinality.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}
