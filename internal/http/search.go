package http

import (
	"net/http"
)

// Rechercher interroge les quatre catégories de fiches récentes.
func (h *Handler) Rechercher(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	WriteJSON(w, http.StatusOK, h.recherche.Rechercher(r.Context(), q))
}
