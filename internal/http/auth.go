package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/logitrack/api/internal/auth"
	httpmiddleware "github.com/logitrack/api/internal/http/middleware"
	"github.com/logitrack/api/internal/service"
)

// Login authentifie par e-mail et mot de passe.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email      string `json:"email"`
		MotDePasse string `json:"mot_de_passe"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}

	if strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.MotDePasse) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "email et mot de passe obligatoires", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Email, payload.MotDePasse)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// Refresh échange un refresh token contre une nouvelle paire de tokens.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.RefreshToken) == "" {
		WriteError(w, http.StatusUnauthorized, "AUTH", "refresh absent", nil)
		return
	}

	result, err := h.authService.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrRefreshInvalide) || errors.Is(err, service.ErrCompteDesactive) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "refresh invalide", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erreur au renouvellement de session", nil)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// Logout révoque la session courante. Toujours 200, même sans session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
		_ = h.authService.Logout(r.Context(), payload.RefreshToken)
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deconnecte"})
}

// Me renvoie le profil du principal authentifié.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return
	}

	profil, err := h.authService.Profil(r.Context(), subject)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "profil indisponible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, profil)
}

// ChangerMotDePasse remplace le mot de passe du principal courant.
func (h *Handler) ChangerMotDePasse(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return
	}

	var payload struct {
		Actuel  string `json:"actuel"`
		Nouveau string `json:"nouveau"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}

	if err := h.utilisateurs.ChangerMotDePasse(r.Context(), subject, payload.Actuel, payload.Nouveau); err != nil {
		if errors.Is(err, service.ErrIdentifiantsInvalides) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "mot de passe actuel invalide", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAuthError expose le même message générique pour tous les échecs de
// connexion, afin de ne pas révéler l'existence ou l'état d'un compte.
func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrIdentifiantsInvalides),
		errors.Is(err, service.ErrCompteDesactive),
		errors.Is(err, auth.ErrRoleInconnu):
		WriteError(w, http.StatusUnauthorized, "AUTH", "identifiants invalides", nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erreur à l'authentification", nil)
	}
}

func (h *Handler) subjectUUID(r *http.Request) (uuid.UUID, error) {
	subject := httpmiddleware.GetSubject(r.Context())
	if strings.TrimSpace(subject) == "" {
		return uuid.Nil, errors.New("subject absent")
	}
	return uuid.Parse(subject)
}
