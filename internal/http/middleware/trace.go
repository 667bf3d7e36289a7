package middleware

import (
	"net/http"

	"github.com/davidbz/semcache/internal/observability"
)

const sourceHTTP = "http"

// Trace tags every request with trace, span and request ids.
func Trace() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := observability.NewRequestContext(r.Context(), sourceHTTP)

			w.Header().Set("X-Trace-Id", observability.GetTraceID(ctx))
			w.Header().Set("X-Request-Id", observability.GetRequestID(ctx))

			observability.FromContext(ctx).Info("request started",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("remote_addr", r.RemoteAddr),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
