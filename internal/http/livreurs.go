package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/logitrack/api/internal/livreur"
)

type livreurPayload struct {
	UtilisateurID *uuid.UUID `json:"utilisateur_id"`
	Prenom        string     `json:"prenom"`
	Nom           string     `json:"nom"`
	Telephone     string     `json:"telephone"`
	Vehicule      string     `json:"vehicule"`
	Zone          string     `json:"zone"`
	Actif         bool       `json:"actif"`
}

func (p livreurPayload) valider() error {
	if strings.TrimSpace(p.Nom) == "" {
		return errors.New("nom obligatoire")
	}
	if strings.TrimSpace(p.Telephone) == "" {
		return errors.New("telephone obligatoire")
	}
	return nil
}

// ListerLivreurs renvoie les coursiers, plus récents d'abord.
func (h *Handler) ListerLivreurs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	list, err := h.livreurs.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "liste des livreurs indisponible", nil)
		return
	}
	if list == nil {
		list = []livreur.Livreur{}
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetLivreur renvoie un coursier par identifiant.
func (h *Handler) GetLivreur(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	l, err := h.livreurs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, livreur.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "livreur introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "livreur indisponible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, l)
}

// CreerLivreur insère un nouveau coursier.
func (h *Handler) CreerLivreur(w http.ResponseWriter, r *http.Request) {
	var payload livreurPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}
	if err := payload.valider(); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	l, err := h.livreurs.Create(r.Context(), livreur.CreateInput{
		UtilisateurID: payload.UtilisateurID,
		Prenom:        payload.Prenom,
		Nom:           payload.Nom,
		Telephone:     payload.Telephone,
		Vehicule:      payload.Vehicule,
		Zone:          payload.Zone,
		Actif:         payload.Actif,
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "création du livreur impossible", nil)
		return
	}

	WriteJSON(w, http.StatusCreated, l)
}

// UpdateLivreur modifie un coursier.
func (h *Handler) UpdateLivreur(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var payload livreurPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}
	if err := payload.valider(); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	l, err := h.livreurs.Update(r.Context(), livreur.UpdateInput{
		ID:            id,
		UtilisateurID: payload.UtilisateurID,
		Prenom:        payload.Prenom,
		Nom:           payload.Nom,
		Telephone:     payload.Telephone,
		Vehicule:      payload.Vehicule,
		Zone:          payload.Zone,
		Actif:         payload.Actif,
	})
	if err != nil {
		if errors.Is(err, livreur.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "livreur introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "mise à jour du livreur impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, l)
}

// SupprimerLivreur efface un coursier.
func (h *Handler) SupprimerLivreur(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.livreurs.Delete(r.Context(), id); err != nil {
		if errors.Is(err, livreur.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "livreur introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "suppression du livreur impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "supprime"})
}
