package bon

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("bon introuvable")
	ErrStatutInvalide      = errors.New("statut de bon invalide")
	ErrTypeInvalide        = errors.New("type de bon invalide")
	ErrTransitionInterdite = errors.New("transition de bon interdite")
	ErrAucunColis          = errors.New("un bon doit référencer au moins un colis")
	ErrColisNonEligible    = errors.New("colis non éligible pour ce bon")
)

// Statuts du cycle de vie d'un bon.
const (
	StatutBrouillon = "brouillon"
	StatutValide    = "valide"
	StatutCloture   = "cloture"
)

// Types de bons.
const (
	TypeDistribution = "distribution"
	TypePaiement     = "paiement"
	TypeRetour       = "retour"
)

// Bon représente un bordereau groupant des colis (distribution, retour)
// ou un règlement d'entreprise (paiement). Les montants sont en centimes.
type Bon struct {
	ID              uuid.UUID   `json:"id"`
	Code            string      `json:"code"`
	Type            string      `json:"type"`
	Statut          string      `json:"statut"`
	LivreurID       *uuid.UUID  `json:"livreur_id,omitempty"`
	EntrepriseID    *uuid.UUID  `json:"entreprise_id,omitempty"`
	MontantCentimes *int64      `json:"montant_centimes,omitempty"`
	ColisIDs        []uuid.UUID `json:"colis_ids,omitempty"`
	CreeLe          time.Time   `json:"cree_le"`
	ValideLe        *time.Time  `json:"valide_le,omitempty"`
	ClotureLe       *time.Time  `json:"cloture_le,omitempty"`
}

// IsValidType indique si le type de bon est connu.
func IsValidType(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case TypeDistribution, TypePaiement, TypeRetour:
		return true
	}
	return false
}

// PeutTransiter indique si le passage de -> vers est autorisé.
func PeutTransiter(de, vers string) bool {
	switch de {
	case StatutBrouillon:
		return vers == StatutValide
	case StatutValide:
		return vers == StatutCloture
	}
	return false
}

func codePrefix(typ string) string {
	switch typ {
	case TypePaiement:
		return "BP"
	case TypeRetour:
		return "BR"
	default:
		return "BD"
	}
}
