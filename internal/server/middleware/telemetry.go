package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// statusRecorder captures the response status code for after-the-fact recording.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Telemetry returns middleware that wraps each request in a span and records
// request count and duration. Best-effort: it never fails the request.
func Telemetry(tracer trace.Tracer, meter metric.Meter) func(http.Handler) http.Handler {
	requests, _ := meter.Int64Counter("http.server.requests")
	duration, _ := meter.Float64Histogram("http.server.duration",
		metric.WithUnit("ms"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
			defer span.End()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			attrs := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.Int("http.status_code", rec.status),
			)
			requests.Add(ctx, 1, attrs)
			duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
		})
	}
}
