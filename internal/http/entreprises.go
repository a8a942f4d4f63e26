package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/logitrack/api/internal/entreprise"
)

type entreprisePayload struct {
	Nom       string  `json:"nom"`
	Telephone string  `json:"telephone"`
	Email     *string `json:"email"`
	Ville     string  `json:"ville"`
	Adresse   string  `json:"adresse"`
	Actif     bool    `json:"actif"`
}

func (p entreprisePayload) valider() error {
	if strings.TrimSpace(p.Nom) == "" {
		return errors.New("nom obligatoire")
	}
	return nil
}

// ListerEntreprises renvoie les sociétés expéditrices, plus récentes d'abord.
func (h *Handler) ListerEntreprises(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	list, err := h.entreprises.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "liste des entreprises indisponible", nil)
		return
	}
	if list == nil {
		list = []entreprise.Entreprise{}
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetEntreprise renvoie une entreprise par identifiant.
func (h *Handler) GetEntreprise(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	e, err := h.entreprises.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, entreprise.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "entreprise introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "entreprise indisponible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, e)
}

// CreerEntreprise insère une nouvelle société.
func (h *Handler) CreerEntreprise(w http.ResponseWriter, r *http.Request) {
	var payload entreprisePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}
	if err := payload.valider(); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	e, err := h.entreprises.Create(r.Context(), entreprise.CreateInput{
		Nom:       payload.Nom,
		Telephone: payload.Telephone,
		Email:     payload.Email,
		Ville:     payload.Ville,
		Adresse:   payload.Adresse,
		Actif:     payload.Actif,
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "création de l'entreprise impossible", nil)
		return
	}

	WriteJSON(w, http.StatusCreated, e)
}

// UpdateEntreprise modifie une société.
func (h *Handler) UpdateEntreprise(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var payload entreprisePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}
	if err := payload.valider(); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	e, err := h.entreprises.Update(r.Context(), entreprise.UpdateInput{
		ID:        id,
		Nom:       payload.Nom,
		Telephone: payload.Telephone,
		Email:     payload.Email,
		Ville:     payload.Ville,
		Adresse:   payload.Adresse,
		Actif:     payload.Actif,
	})
	if err != nil {
		if errors.Is(err, entreprise.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "entreprise introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "mise à jour de l'entreprise impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, e)
}

// SupprimerEntreprise efface une société.
func (h *Handler) SupprimerEntreprise(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.entreprises.Delete(r.Context(), id); err != nil {
		if errors.Is(err, entreprise.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "entreprise introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "suppression de l'entreprise impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "supprime"})
}
