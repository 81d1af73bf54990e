package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gearbox-ai/gearbox/internal/models"
	"github.com/rs/zerolog/log"
)

// Recovery turns a downstream panic into a 500 JSON response. Run it after
// RequestID so the panic log carries the request ID.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.Error().
				Str("request_id", GetRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			models.WriteError(w, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
