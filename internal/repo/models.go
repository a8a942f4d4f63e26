package repo

import (
	"time"

	"github.com/google/uuid"
)

// Utilisateur représente un compte du tableau de bord (admin, gestionnaire ou livreur).
type Utilisateur struct {
	ID             uuid.UUID  `json:"id"`
	Prenom         string     `json:"prenom"`
	Nom            string     `json:"nom"`
	Email          string     `json:"email"`
	MotDePasseHash string     `json:"-"`
	Role           string     `json:"role"`
	Actif          bool       `json:"actif"`
	CreeLe         time.Time  `json:"cree_le"`
	MisAJourLe     *time.Time `json:"mis_a_jour_le,omitempty"`
}

// SessionRefresh modélise la table des sessions (refresh tokens).
type SessionRefresh struct {
	ID         uuid.UUID
	Sujet      uuid.UUID
	TokenHash  string
	Expiration time.Time
	CreeLe     time.Time
	Revoquee   bool
}

// InsertSessionParams encapsule les champs d'une nouvelle session.
type InsertSessionParams struct {
	ID         uuid.UUID
	Sujet      uuid.UUID
	TokenHash  string
	Expiration time.Time
	CreeLe     time.Time
}
