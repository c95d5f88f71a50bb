package middleware

import (
	"log/slog"
	"net/http"

	"github.com/CAFxX/httpcompression"
)

// Compress negotiates gzip, deflate or brotli for the wrapped handler.
// If the adapter cannot be built responses are sent uncompressed.
func Compress(logger *slog.Logger) Middleware {
	adapter, err := httpcompression.DefaultAdapter()
	if err != nil {
		logger.Warn("response compression disabled", "error", err)
		return func(next http.Handler) http.Handler { return next }
	}
	return Middleware(adapter)
}
