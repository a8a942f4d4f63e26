package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/logitrack/api/internal/auth"
	"github.com/logitrack/api/internal/notification"
)

// InboxNotifications renvoie la boîte de réception du principal courant :
// les 50 plus récentes et le compteur de non-lues.
func (h *Handler) InboxNotifications(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return
	}

	inbox, err := h.notifications.Inbox(r.Context(), subject)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "boîte de réception indisponible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, inbox)
}

// MarquerLue marque une notification comme lue et la renvoie à jour.
func (h *Handler) MarquerLue(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return
	}

	n, err := h.notifications.MarquerLue(r.Context(), id, subject)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "notification introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "marquage impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, n)
}

// MarquerToutesLues passe toutes les non-lues en lu.
func (h *Handler) MarquerToutesLues(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return
	}

	count, err := h.notifications.MarquerToutesLues(r.Context(), subject)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "marquage impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int64{"marquees": count})
}

// SupprimerNotification efface une notification et indique si elle était
// encore non lue, pour que le client ajuste son compteur.
func (h *Handler) SupprimerNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return
	}

	etaitNonLue, err := h.notifications.Supprimer(r.Context(), id, subject)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "notification introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "suppression impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"etait_non_lue": etaitNonLue})
}

// DiffuserNotification envoie une notification à tous les comptes actifs d'un
// rôle. Réservé à la gestion via la table de règles.
func (h *Handler) DiffuserNotification(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Role    string  `json:"role"`
		Titre   string  `json:"titre"`
		Message string  `json:"message"`
		Type    string  `json:"type"`
		Lien    *string `json:"lien"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}

	count, err := h.notifications.CreerPourRole(r.Context(), payload.Role, payload.Titre, payload.Message, payload.Type, payload.Lien)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRoleInconnu):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "rôle inconnu", nil)
		case errors.Is(err, notification.ErrTypeInvalid):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "type de notification inconnu", nil)
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]int{"destinataires": count})
}
