package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/logitrack/api/internal/auth"
	"github.com/logitrack/api/internal/repo"
	"github.com/logitrack/api/internal/service"
)

// ListerUtilisateurs renvoie tous les comptes du tableau de bord.
func (h *Handler) ListerUtilisateurs(w http.ResponseWriter, r *http.Request) {
	users, err := h.utilisateurs.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "liste des comptes indisponible", nil)
		return
	}
	if users == nil {
		users = []repo.Utilisateur{}
	}
	WriteJSON(w, http.StatusOK, users)
}

// GetUtilisateur renvoie un compte par identifiant.
func (h *Handler) GetUtilisateur(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	user, err := h.utilisateurs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "compte introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "compte indisponible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// CreerUtilisateur crée un compte avec mot de passe haché.
func (h *Handler) CreerUtilisateur(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prenom     string `json:"prenom"`
		Nom        string `json:"nom"`
		Email      string `json:"email"`
		MotDePasse string `json:"mot_de_passe"`
		Role       string `json:"role"`
		Actif      bool   `json:"actif"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}

	user, err := h.utilisateurs.Create(r.Context(), service.CreateUtilisateurInput{
		Prenom:     payload.Prenom,
		Nom:        payload.Nom,
		Email:      payload.Email,
		MotDePasse: payload.MotDePasse,
		Role:       payload.Role,
		Actif:      payload.Actif,
	})
	if err != nil {
		if errors.Is(err, auth.ErrRoleInconnu) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "rôle inconnu", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, user)
}

// UpdateUtilisateur modifie nom, rôle et statut d'un compte.
func (h *Handler) UpdateUtilisateur(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var payload struct {
		Prenom string `json:"prenom"`
		Nom    string `json:"nom"`
		Role   string `json:"role"`
		Actif  bool   `json:"actif"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}

	user, err := h.utilisateurs.Update(r.Context(), service.UpdateUtilisateurInput{
		ID:     id,
		Prenom: payload.Prenom,
		Nom:    payload.Nom,
		Role:   payload.Role,
		Actif:  payload.Actif,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "compte introuvable", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// SupprimerUtilisateur efface un compte, sauf le sien.
func (h *Handler) SupprimerUtilisateur(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	demandeur, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return
	}

	if err := h.utilisateurs.Delete(r.Context(), id, demandeur); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "compte introuvable", nil)
			return
		}
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "supprime"})
}
