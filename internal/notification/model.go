package notification

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("notification introuvable")
	ErrTypeInvalid = errors.New("type de notification invalide")
)

// Types de notification acceptés.
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

// ListeMax borne le nombre de notifications renvoyées par la boîte de réception.
const ListeMax = 50

var validTypes = map[string]struct{}{
	TypeInfo:    {},
	TypeSuccess: {},
	TypeWarning: {},
	TypeError:   {},
}

// Notification représente une entrée de la boîte de réception d'un utilisateur.
type Notification struct {
	ID            uuid.UUID  `json:"id"`
	UtilisateurID uuid.UUID  `json:"utilisateur_id"`
	Titre         string     `json:"titre"`
	Message       string     `json:"message"`
	Type          string     `json:"type"`
	Lien          *string    `json:"lien,omitempty"`
	Lue           bool       `json:"lue"`
	LueLe         *time.Time `json:"lue_le,omitempty"`
	CreeLe        time.Time  `json:"cree_le"`
}

// CreateInput encapsule les champs d'une nouvelle notification.
type CreateInput struct {
	UtilisateurID uuid.UUID
	Titre         string
	Message       string
	Type          string
	Lien          *string
}

// Inbox agrège la liste plafonnée et le compteur de non-lues.
type Inbox struct {
	Notifications []Notification `json:"notifications"`
	NonLues       int            `json:"non_lues"`
}

// NormalizeType ramène le type en minuscules, "info" par défaut.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return TypeInfo
	}
	return t
}

// IsValidType indique si le type est accepté.
func IsValidType(t string) bool {
	_, ok := validTypes[strings.ToLower(strings.TrimSpace(t))]
	return ok
}
