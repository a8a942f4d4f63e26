package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/logitrack/api/internal/bon"
)

// ListerBons renvoie les bordereaux, filtrés par type le cas échéant.
func (h *Handler) ListerBons(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	list, err := h.bons.Lister(r.Context(), r.URL.Query().Get("type"), limit, offset)
	if err != nil {
		if errors.Is(err, bon.ErrTypeInvalide) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "type de bon inconnu", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "liste des bons indisponible", nil)
		return
	}
	if list == nil {
		list = []bon.Bon{}
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetBon renvoie un bordereau et ses colis rattachés.
func (h *Handler) GetBon(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	b, err := h.bons.Get(r.Context(), id)
	if err != nil {
		h.writeBonError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, b)
}

// CreerBonDistribution crée un bon de distribution en brouillon.
func (h *Handler) CreerBonDistribution(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		LivreurID uuid.UUID   `json:"livreur_id"`
		ColisIDs  []uuid.UUID `json:"colis_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}
	if payload.LivreurID == uuid.Nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "livreur_id obligatoire", nil)
		return
	}

	b, err := h.bons.CreerDistribution(r.Context(), payload.LivreurID, payload.ColisIDs)
	if err != nil {
		h.writeBonError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, b)
}

// CreerBonRetour crée un bon de retour en brouillon.
func (h *Handler) CreerBonRetour(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		LivreurID *uuid.UUID  `json:"livreur_id"`
		ColisIDs  []uuid.UUID `json:"colis_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}

	b, err := h.bons.CreerRetour(r.Context(), payload.LivreurID, payload.ColisIDs)
	if err != nil {
		h.writeBonError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, b)
}

// CreerBonPaiement crée un bon de paiement en brouillon.
func (h *Handler) CreerBonPaiement(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EntrepriseID    uuid.UUID   `json:"entreprise_id"`
		MontantCentimes int64       `json:"montant_centimes"`
		ColisIDs        []uuid.UUID `json:"colis_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}
	if payload.EntrepriseID == uuid.Nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "entreprise_id obligatoire", nil)
		return
	}

	b, err := h.bons.CreerPaiement(r.Context(), payload.EntrepriseID, payload.MontantCentimes, payload.ColisIDs)
	if err != nil {
		h.writeBonError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, b)
}

// ValiderBon passe un brouillon à l'état validé et applique ses effets.
func (h *Handler) ValiderBon(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return
	}

	b, err := h.bons.Valider(r.Context(), id, subject)
	if err != nil {
		h.writeBonError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, b)
}

// CloturerBon ferme un bon validé.
func (h *Handler) CloturerBon(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	b, err := h.bons.Cloturer(r.Context(), id)
	if err != nil {
		h.writeBonError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, b)
}

// SupprimerBon efface un bon encore en brouillon.
func (h *Handler) SupprimerBon(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.bons.Supprimer(r.Context(), id); err != nil {
		h.writeBonError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "supprime"})
}

func (h *Handler) writeBonError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bon.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "bon introuvable", nil)
	case errors.Is(err, bon.ErrTransitionInterdite):
		WriteError(w, http.StatusConflict, "CONFLICT", "transition de bon interdite", nil)
	case errors.Is(err, bon.ErrAucunColis), errors.Is(err, bon.ErrTypeInvalide):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	case errors.Is(err, bon.ErrColisNonEligible):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "opération sur le bon impossible", nil)
	}
}
