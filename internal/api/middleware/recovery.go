package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/civicpulse/backend/internal/infrastructure/observability"
)

// RecoveryMiddleware turns handler panics into a 500 JSON response.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			detail := fmt.Sprint(rec)
			observability.LoggerFromContext(r.Context()).Error().
				Str("panic", detail).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			writeError(w, http.StatusInternalServerError, "Unexpected error", detail)
		}()
		next.ServeHTTP(w, r)
	})
}
