package entreprise

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("entreprise introuvable")

// Entreprise représente une société cliente expéditrice de colis.
type Entreprise struct {
	ID        uuid.UUID  `json:"id"`
	Nom       string     `json:"nom"`
	Telephone string     `json:"telephone"`
	Email     *string    `json:"email,omitempty"`
	Ville     string     `json:"ville"`
	Adresse   string     `json:"adresse"`
	Actif     bool       `json:"actif"`
	CreeLe    time.Time  `json:"cree_le"`
	MisAJourLe *time.Time `json:"mis_a_jour_le,omitempty"`
}

// CreateInput encapsule les champs d'une nouvelle entreprise.
type CreateInput struct {
	Nom       string
	Telephone string
	Email     *string
	Ville     string
	Adresse   string
	Actif     bool
}

// UpdateInput encapsule les champs modifiables.
type UpdateInput struct {
	ID        uuid.UUID
	Nom       string
	Telephone string
	Email     *string
	Ville     string
	Adresse   string
	Actif     bool
}
