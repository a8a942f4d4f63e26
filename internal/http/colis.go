package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/logitrack/api/internal/auth"
	"github.com/logitrack/api/internal/colis"
	httpmiddleware "github.com/logitrack/api/internal/http/middleware"
	"github.com/logitrack/api/internal/livreur"
)

// preuveMaxOctets borne la taille d'une preuve de livraison (photo/signature).
const preuveMaxOctets = 5 << 20

// ListerColis renvoie les colis filtrés. Un livreur ne voit que sa tournée.
func (h *Handler) ListerColis(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	filter := colis.Filter{
		Statut: strings.TrimSpace(r.URL.Query().Get("statut")),
		Limit:  limit,
		Offset: offset,
	}

	if id := strings.TrimSpace(r.URL.Query().Get("livreur_id")); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "livreur_id invalide", nil)
			return
		}
		filter.LivreurID = &parsed
	}

	if httpmiddleware.GetRole(r.Context()) == auth.RoleLivreur {
		profil, ok := h.profilLivreur(w, r)
		if !ok {
			return
		}
		filter.LivreurID = &profil.ID
	}

	list, err := h.colis.Lister(r.Context(), filter)
	if err != nil {
		if errors.Is(err, colis.ErrStatutInvalide) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "statut inconnu", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "liste des colis indisponible", nil)
		return
	}
	if list == nil {
		list = []colis.Colis{}
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetColis renvoie un colis par identifiant.
func (h *Handler) GetColis(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	c, err := h.colis.Get(r.Context(), id)
	if err != nil {
		h.writeColisError(w, err)
		return
	}
	if !h.colisVisible(w, r, c) {
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// GetColisParCode renvoie un colis par code de suivi.
func (h *Handler) GetColisParCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	c, err := h.colis.GetParCode(r.Context(), code)
	if err != nil {
		h.writeColisError(w, err)
		return
	}
	if !h.colisVisible(w, r, c) {
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

type colisPayload struct {
	ClientID      uuid.UUID `json:"client_id"`
	EntrepriseID  uuid.UUID `json:"entreprise_id"`
	Adresse       string    `json:"adresse"`
	Ville         string    `json:"ville"`
	Telephone     string    `json:"telephone"`
	PrixCentimes  int64     `json:"prix_centimes"`
	FraisCentimes int64     `json:"frais_centimes"`
}

// CreerColis insère un colis en attente. Réservé à la gestion.
func (h *Handler) CreerColis(w http.ResponseWriter, r *http.Request) {
	if !h.requireGestion(w, r) {
		return
	}

	var payload colisPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}

	c, err := h.colis.Creer(r.Context(), colis.CreateInput{
		ClientID:      payload.ClientID,
		EntrepriseID:  payload.EntrepriseID,
		Adresse:       payload.Adresse,
		Ville:         payload.Ville,
		Telephone:     payload.Telephone,
		PrixCentimes:  payload.PrixCentimes,
		FraisCentimes: payload.FraisCentimes,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, c)
}

// UpdateColis modifie les champs hors statut. Réservé à la gestion.
func (h *Handler) UpdateColis(w http.ResponseWriter, r *http.Request) {
	if !h.requireGestion(w, r) {
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var payload colisPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}

	c, err := h.colis.Update(r.Context(), colis.UpdateInput{
		ID:            id,
		Adresse:       payload.Adresse,
		Ville:         payload.Ville,
		Telephone:     payload.Telephone,
		PrixCentimes:  payload.PrixCentimes,
		FraisCentimes: payload.FraisCentimes,
	})
	if err != nil {
		if errors.Is(err, colis.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "colis introuvable", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// SupprimerColis efface un colis. Réservé à la gestion.
func (h *Handler) SupprimerColis(w http.ResponseWriter, r *http.Request) {
	if !h.requireGestion(w, r) {
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.colis.Supprimer(r.Context(), id); err != nil {
		h.writeColisError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "supprime"})
}

// HistoriqueColis renvoie la trace des statuts d'un colis.
func (h *Handler) HistoriqueColis(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	hist, err := h.colis.Historique(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "historique indisponible", nil)
		return
	}
	if hist == nil {
		hist = []colis.HistoriqueStatut{}
	}
	WriteJSON(w, http.StatusOK, hist)
}

// ChangerStatutColis applique une transition du cycle de vie.
func (h *Handler) ChangerStatutColis(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return
	}

	var payload struct {
		Statut string `json:"statut"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON invalide", nil)
		return
	}

	if httpmiddleware.GetRole(r.Context()) == auth.RoleLivreur {
		c, err := h.colis.Get(r.Context(), id)
		if err != nil {
			h.writeColisError(w, err)
			return
		}
		if !h.colisVisible(w, r, c) {
			return
		}
	}

	c, err := h.colis.ChangerStatut(r.Context(), id, payload.Statut, subject)
	if err != nil {
		h.writeColisError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// AssignerColis affecte un livreur. Réservé à la gestion.
func (h *Handler) AssignerColis(w http.ResponseWriter, r *http.Request) {
	if !h.requireGestion(w, r) {
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var payload struct {
		LivreurID uuid.UUID `json:"livreur_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.LivreurID == uuid.Nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "livreur_id obligatoire", nil)
		return
	}

	c, err := h.colis.Assigner(r.Context(), id, payload.LivreurID)
	if err != nil {
		if errors.Is(err, livreur.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "livreur introuvable", nil)
			return
		}
		h.writeColisError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// DesassignerColis retire le livreur du colis. Réservé à la gestion.
func (h *Handler) DesassignerColis(w http.ResponseWriter, r *http.Request) {
	if !h.requireGestion(w, r) {
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	c, err := h.colis.Desassigner(r.Context(), id)
	if err != nil {
		h.writeColisError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// TeleverserPreuve attache la preuve de livraison au colis.
func (h *Handler) TeleverserPreuve(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if httpmiddleware.GetRole(r.Context()) == auth.RoleLivreur {
		c, err := h.colis.Get(r.Context(), id)
		if err != nil {
			h.writeColisError(w, err)
			return
		}
		if !h.colisVisible(w, r, c) {
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, preuveMaxOctets+1))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corps illisible", nil)
		return
	}
	if len(body) == 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corps vide", nil)
		return
	}
	if len(body) > preuveMaxOctets {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "preuve trop volumineuse", nil)
		return
	}

	c, err := h.colis.TeleverserPreuve(r.Context(), id, r.Header.Get("Content-Type"), body)
	if err != nil {
		if errors.Is(err, colis.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "colis introuvable", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "téléversement impossible", nil)
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

// requireGestion restreint les mutations structurantes aux rôles de gestion.
func (h *Handler) requireGestion(w http.ResponseWriter, r *http.Request) bool {
	role := httpmiddleware.GetRole(r.Context())
	if !auth.HasAccess(role, auth.RoleAdmin, auth.RoleGestionnaire) {
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "accès refusé pour ce rôle", nil)
		return false
	}
	return true
}

// profilLivreur résout le profil coursier du compte courant.
func (h *Handler) profilLivreur(w http.ResponseWriter, r *http.Request) (livreur.Livreur, bool) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject invalide", nil)
		return livreur.Livreur{}, false
	}

	profil, err := h.livreurs.GetByUtilisateur(r.Context(), subject)
	if err != nil {
		if errors.Is(err, livreur.ErrNotFound) {
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "aucun profil livreur pour ce compte", nil)
			return livreur.Livreur{}, false
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "profil livreur indisponible", nil)
		return livreur.Livreur{}, false
	}
	return profil, true
}

// colisVisible vérifie qu'un livreur ne consulte que sa propre tournée.
func (h *Handler) colisVisible(w http.ResponseWriter, r *http.Request, c colis.Colis) bool {
	if httpmiddleware.GetRole(r.Context()) != auth.RoleLivreur {
		return true
	}

	profil, ok := h.profilLivreur(w, r)
	if !ok {
		return false
	}
	if c.LivreurID == nil || *c.LivreurID != profil.ID {
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "colis hors de votre tournée", nil)
		return false
	}
	return true
}

func (h *Handler) writeColisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, colis.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "colis introuvable", nil)
	case errors.Is(err, colis.ErrStatutInvalide):
		WriteError(w, http.StatusBadRequest, "VALIDATION", "statut inconnu", nil)
	case errors.Is(err, colis.ErrTransitionInterdite):
		WriteError(w, http.StatusConflict, "CONFLICT", "transition de statut interdite", nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "opération sur le colis impossible", nil)
	}
}
