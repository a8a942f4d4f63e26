package colis

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("colis introuvable")
	ErrStatutInvalide      = errors.New("statut de colis invalide")
	ErrTransitionInterdite = errors.New("transition de statut interdite")
)

// Statuts du cycle de vie d'un colis.
const (
	StatutEnAttente = "en_attente"
	StatutEnCours   = "en_cours"
	StatutLivre     = "livre"
	StatutRetourne  = "retourne"
	StatutAnnule    = "annule"
)

// transitions décrit les passages de statut autorisés.
var transitions = map[string][]string{
	StatutEnAttente: {StatutEnCours, StatutAnnule},
	StatutEnCours:   {StatutLivre, StatutRetourne, StatutAnnule},
	StatutLivre:     {},
	StatutRetourne:  {StatutEnAttente},
	StatutAnnule:    {},
}

// Colis représente un envoi suivi par LogiTrack. Les montants sont en centimes.
type Colis struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	ClientID      uuid.UUID  `json:"client_id"`
	EntrepriseID  uuid.UUID  `json:"entreprise_id"`
	LivreurID     *uuid.UUID `json:"livreur_id,omitempty"`
	Adresse       string     `json:"adresse"`
	Ville         string     `json:"ville"`
	Telephone     string     `json:"telephone"`
	PrixCentimes  int64      `json:"prix_centimes"`
	FraisCentimes int64      `json:"frais_centimes"`
	Statut        string     `json:"statut"`
	PreuveURL     *string    `json:"preuve_url,omitempty"`
	CreeLe        time.Time  `json:"cree_le"`
	MisAJourLe    *time.Time `json:"mis_a_jour_le,omitempty"`
}

// HistoriqueStatut trace chaque changement de statut.
type HistoriqueStatut struct {
	ID      uuid.UUID `json:"id"`
	ColisID uuid.UUID `json:"colis_id"`
	De      string    `json:"de"`
	Vers    string    `json:"vers"`
	ParID   uuid.UUID `json:"par_id"`
	CreeLe  time.Time `json:"cree_le"`
}

// CreateInput encapsule les champs d'un nouveau colis.
type CreateInput struct {
	ClientID      uuid.UUID
	EntrepriseID  uuid.UUID
	Adresse       string
	Ville         string
	Telephone     string
	PrixCentimes  int64
	FraisCentimes int64
}

// UpdateInput encapsule les champs modifiables hors statut.
type UpdateInput struct {
	ID            uuid.UUID
	Adresse       string
	Ville         string
	Telephone     string
	PrixCentimes  int64
	FraisCentimes int64
}

// Filter restreint les listages.
type Filter struct {
	Statut    string
	LivreurID *uuid.UUID
	Limit     int
	Offset    int
}

// IsValidStatut indique si le statut est connu.
func IsValidStatut(statut string) bool {
	_, ok := transitions[strings.ToLower(strings.TrimSpace(statut))]
	return ok
}

// PeutTransiter indique si le passage de -> vers est autorisé.
func PeutTransiter(de, vers string) bool {
	for _, s := range transitions[strings.ToLower(strings.TrimSpace(de))] {
		if s == strings.ToLower(strings.TrimSpace(vers)) {
			return true
		}
	}
	return false
}
