package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// Recover garantit une réponse propre en cas de panic.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Msg("panic récupéré")
				writeError(w, http.StatusInternalServerError, "INTERNAL", "erreur interne")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
