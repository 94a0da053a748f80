// Package recovery converts handler panics into 500 responses instead
// of killing the connection.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Middleware wraps next so a panic in any downstream handler is logged
// with its stack and answered with a JSON 500.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logPanic(r, rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Internal Server Error","code":500}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func logPanic(r *http.Request, rec any) {
	log.Error().
		Interface("panic", rec).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Bytes("stack", debug.Stack()).
		Msg("handler panic recovered")
}
