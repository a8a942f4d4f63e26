package client

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("client introuvable")

// Client représente un destinataire de colis.
type Client struct {
	ID           uuid.UUID  `json:"id"`
	Prenom       string     `json:"prenom"`
	Nom          string     `json:"nom"`
	Telephone    string     `json:"telephone"`
	Ville        string     `json:"ville"`
	Adresse      string     `json:"adresse"`
	EntrepriseID *uuid.UUID `json:"entreprise_id,omitempty"`
	CreeLe       time.Time  `json:"cree_le"`
	MisAJourLe   *time.Time `json:"mis_a_jour_le,omitempty"`
}

// CreateInput encapsule les champs d'un nouveau client.
type CreateInput struct {
	Prenom       string
	Nom          string
	Telephone    string
	Ville        string
	Adresse      string
	EntrepriseID *uuid.UUID
}

// UpdateInput encapsule les champs modifiables.
type UpdateInput struct {
	ID           uuid.UUID
	Prenom       string
	Nom          string
	Telephone    string
	Ville        string
	Adresse      string
	EntrepriseID *uuid.UUID
}
