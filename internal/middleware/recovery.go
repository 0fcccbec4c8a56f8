package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"scriptory/internal/httputil"
)

// Recovery converts handler panics into 500 problem responses so one bad
// request cannot take the whole docs server down. The panic value, the
// request that triggered it and the stack all land in the log.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.Error("panic while handling request",
					"method", r.Method,
					"path", r.URL.Path,
					"remote", r.RemoteAddr,
					"panic", v,
					"stack", string(debug.Stack()),
				)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
