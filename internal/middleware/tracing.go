package middleware

import (
	"fmt"
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"
	"go.opentelemetry.io/otel/attribute"

	"season-dashboard/internal/observability"
)

// Tracing opens a span per request and exposes its trace id to the client.
func Tracing() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), "HTTP "+r.Method,
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
				attribute.String("user_agent.original", r.UserAgent()),
			)
			defer span.End()

			if traceID := observability.TraceID(ctx); traceID != "" {
				w.Header().Set("X-Trace-ID", traceID)
			}

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.response.status_code", wrapped.statusCode))
			if wrapped.statusCode >= http.StatusInternalServerError {
				observability.RecordError(span, fmt.Errorf("HTTP %d", wrapped.statusCode))
			}
		})
	}
}

// ServerTiming attaches a Server-Timing header collector to each request.
// Handlers add entries with observability.StartTiming.
func ServerTiming(enabled bool) Middleware {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&responseWriter{ResponseWriter: w, statusCode: http.StatusOK}, r)
		})
		return servertiming.Middleware(inner, nil)
	}
}
