// Package middleware holds the HTTP middleware the drivelog server mounts
// ahead of its routes: request logging, CORS, and the request body cap.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewSlogLogger returns the request-logging middleware. One structured line
// is emitted per request once the handler finishes: method, path, status,
// response size, elapsed time, and the ID assigned by chi's RequestID
// middleware. Mount RequestID before this one or request_id comes out empty.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			// The wrapped writer records the status and byte count the
			// downstream handler produces.
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			began := time.Now()

			defer func() {
				log.InfoContext(r.Context(), "request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(began).Milliseconds(),
					"request_id", chimiddleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
