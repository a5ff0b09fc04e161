package middleware

import (
	"net/http"
	"strings"
	"time"

	"petcast-web/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog escribe una línea por request; el nivel depende del status.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := strings.TrimSpace(rctx.RoutePattern()); p != "" {
					path = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := map[string]any{
				"request_id": chimw.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       path,
				"status":     status,
				"latency_ms": time.Since(start).Milliseconds(),
				"bytes_out":  ww.BytesWritten(),
				"remote_ip":  r.RemoteAddr,
			}
			if s, ok := CurrentSession(r.Context()); ok {
				fields["user_id"] = s.UserID
				fields["role"] = string(s.Role)
			}

			switch {
			case status >= 500:
				log.Error("request", fields)
			case status >= 400:
				log.Warn("request", fields)
			default:
				log.Info("request", fields)
			}
		})
	}
}
