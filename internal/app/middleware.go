package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"restaurant-ordering/internal/common/logger"
)

// requestLogger logs one http_request line per request, tagged with the
// chi request id.
func requestLogger(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": r.RemoteAddr,
			}
			l := lg.WithRequestID(middleware.GetReqID(r.Context()))
			if status >= http.StatusInternalServerError {
				l.Warn("http_request", fields)
				return
			}
			l.Info("http_request", fields)
		})
	}
}
