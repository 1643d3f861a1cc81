package middleware

import (
	"log/slog"
	"net/http"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/platform/logger"
)

// Correlation tags each request with a correlation id. An inbound
// X-Correlation-ID is reused, otherwise a fresh id is generated. The id is
// echoed in the response header and installed in the request context together
// with a logger carrying it, so every log line of the request is tagged.
//
// This middleware should run before anything that logs or responds.
func Correlation(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := shared.CorrelationIDFrom(r.Header.Get(shared.CorrelationHeader))
			w.Header().Set(shared.CorrelationHeader, id)

			log := base.With(slog.String("correlation_id", id))
			ctx := shared.WithCorrelationID(r.Context(), id)
			ctx = logger.WithLogger(ctx, log)

			log.DebugContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
