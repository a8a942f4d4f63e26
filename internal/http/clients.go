package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/logitrack/api/internal/client"
)

type clientPayload struct {
	Prenom       string     `json:"prenom"`
	Nom          string     `json:"nom"`
	Telephone    string     `json:"telephone"`
	Ville        string     `json:"ville"`
	Adresse      string     `json:"adresse"`
	EntrepriseID *uuid.UUID `json:"entreprise_id"`
}

func (p clientPayload) valider() error {
	if strings.TrimSpace(p.Nom) == "" {
		return errors.New("nom obligatoire")
	}
	if strings.TrimSpace(p.Telephone) == "" {
		return errors.New("telephone obligatoire")
	}
	return nil
}

// ListerClients renvoie les destinataires, plus récents d'abord.
func (h *Handler) ListerClients(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	list, err := h.clients.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "liste des clients indisponible", nil)
		return
	}
	if list == nil {
		list = []client.Client{}
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetClient renvoie un client par identifiant.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	c, err := h.clients.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "client introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "client indisponible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// CreerClient insère un nouveau destinataire.
func (h *Handler) CreerClient(w http.ResponseWriter, r *http.Request) {
	var payload clientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}
	if err := payload.valider(); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	c, err := h.clients.Create(r.Context(), client.CreateInput{
		Prenom:       payload.Prenom,
		Nom:          payload.Nom,
		Telephone:    payload.Telephone,
		Ville:        payload.Ville,
		Adresse:      payload.Adresse,
		EntrepriseID: payload.EntrepriseID,
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "création du client impossible", nil)
		return
	}

	WriteJSON(w, http.StatusCreated, c)
}

// UpdateClient modifie un destinataire.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var payload clientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}
	if err := payload.valider(); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	c, err := h.clients.Update(r.Context(), client.UpdateInput{
		ID:           id,
		Prenom:       payload.Prenom,
		Nom:          payload.Nom,
		Telephone:    payload.Telephone,
		Ville:        payload.Ville,
		Adresse:      payload.Adresse,
		EntrepriseID: payload.EntrepriseID,
	})
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "client introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "mise à jour du client impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// SupprimerClient efface un destinataire.
func (h *Handler) SupprimerClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.clients.Delete(r.Context(), id); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "client introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "suppression du client impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "supprime"})
}
