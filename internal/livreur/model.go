package livreur

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("livreur introuvable")

// Livreur représente le profil terrain d'un coursier. Le compte de connexion
// associé (rôle Livreur) est porté par UtilisateurID.
type Livreur struct {
	ID            uuid.UUID  `json:"id"`
	UtilisateurID *uuid.UUID `json:"utilisateur_id,omitempty"`
	Prenom        string     `json:"prenom"`
	Nom           string     `json:"nom"`
	Telephone     string     `json:"telephone"`
	Vehicule      string     `json:"vehicule"`
	Zone          string     `json:"zone"`
	Actif         bool       `json:"actif"`
	CreeLe        time.Time  `json:"cree_le"`
	MisAJourLe    *time.Time `json:"mis_a_jour_le,omitempty"`
}

// CreateInput encapsule les champs d'un nouveau livreur.
type CreateInput struct {
	UtilisateurID *uuid.UUID
	Prenom        string
	Nom           string
	Telephone     string
	Vehicule      string
	Zone          string
	Actif         bool
}

// UpdateInput encapsule les champs modifiables.
type UpdateInput struct {
	ID            uuid.UUID
	UtilisateurID *uuid.UUID
	Prenom        string
	Nom           string
	Telephone     string
	Vehicule      string
	Zone          string
	Actif         bool
}
