// Package recovery keeps a panicking handler from taking the process
// down with it.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/creatorhub/engage/internal/api/respond"
)

// Middleware converts downstream panics into a 500 response. The panic
// value and stack go to the provided logger; the client sees only the
// generic error body.
func Middleware(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("panic", rec).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("remote", r.RemoteAddr).
						Bytes("stack", debug.Stack()).
						Msg("handler panicked")
					respond.WriteInternalError(w, "")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
