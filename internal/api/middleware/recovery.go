package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/platform/logger"
)

// Recover turns a panicking handler into a 500 envelope rendered by faults.
// A handler that already started its response only gets the panic logged.
// http.ErrAbortHandler is re-raised so the server can abort the connection.
func Recover(faults *shared.FaultHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context()).ErrorContext(r.Context(), "panic recovered",
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"headers_sent", sw.written,
					"stack", string(debug.Stack()))
				if sw.written {
					return
				}
				faults.Respond(w, r, apperr.Internal(fmt.Errorf("panic: %v", rec)))
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
