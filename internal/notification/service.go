package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/logitrack/api/internal/auth"
	"github.com/logitrack/api/internal/repo"
	"github.com/logitrack/api/internal/util"
)

type inboxRepository interface {
	ListByUtilisateur(ctx context.Context, utilisateurID uuid.UUID, limit int) ([]Notification, error)
	CountNonLues(ctx context.Context, utilisateurID uuid.UUID) (int, error)
	Create(ctx context.Context, input CreateInput) (*Notification, error)
	MarquerLue(ctx context.Context, id, utilisateurID uuid.UUID, quand time.Time) (*Notification, error)
	MarquerToutesLues(ctx context.Context, utilisateurID uuid.UUID, quand time.Time) (int64, error)
	Supprimer(ctx context.Context, id, utilisateurID uuid.UUID) (bool, error)
}

type annuaireRoles interface {
	ListUtilisateursActifsByRole(ctx context.Context, role string) ([]repo.Utilisateur, error)
}

// Service applique les règles de la boîte de réception.
type Service struct {
	repo     inboxRepository
	annuaire annuaireRoles
}

// NewService crée une instance du service.
func NewService(r inboxRepository, annuaire annuaireRoles) *Service {
	return &Service{repo: r, annuaire: annuaire}
}

// Inbox renvoie les 50 notifications les plus récentes et le compteur de non-lues.
func (s *Service) Inbox(ctx context.Context, utilisateurID uuid.UUID) (*Inbox, error) {
	list, err := s.repo.ListByUtilisateur(ctx, utilisateurID, ListeMax)
	if err != nil {
		return nil, err
	}

	nonLues, err := s.repo.CountNonLues(ctx, utilisateurID)
	if err != nil {
		return nil, err
	}

	if list == nil {
		list = []Notification{}
	}
	return &Inbox{Notifications: list, NonLues: nonLues}, nil
}

// Creer valide puis insère une notification non lue.
func (s *Service) Creer(ctx context.Context, input CreateInput) (*Notification, error) {
	if err := util.RequireString(input.Titre, "titre"); err != nil {
		return nil, err
	}

	input.Type = NormalizeType(input.Type)
	if !IsValidType(input.Type) {
		return nil, ErrTypeInvalid
	}

	return s.repo.Create(ctx, input)
}

// CreerPourRole diffuse une notification à tous les comptes actifs d'un rôle.
// Renvoie le nombre de destinataires effectivement notifiés.
func (s *Service) CreerPourRole(ctx context.Context, role, titre, message, typ string, lien *string) (int, error) {
	normalizedRole, err := auth.ValidateRole(role)
	if err != nil {
		return 0, err
	}

	// Valide avant la boucle : une entrée invalide doit échouer franchement,
	// pas se diluer en échecs partiels par destinataire.
	if err := util.RequireString(titre, "titre"); err != nil {
		return 0, err
	}
	typ = NormalizeType(typ)
	if !IsValidType(typ) {
		return 0, ErrTypeInvalid
	}

	users, err := s.annuaire.ListUtilisateursActifsByRole(ctx, normalizedRole)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, u := range users {
		if _, err := s.Creer(ctx, CreateInput{
			UtilisateurID: u.ID,
			Titre:         titre,
			Message:       message,
			Type:          typ,
			Lien:          lien,
		}); err != nil {
			// Une diffusion partielle vaut mieux qu'aucune : on continue.
			log.Warn().Err(err).Str("utilisateur", u.ID.String()).Msg("notification: diffusion partielle")
			continue
		}
		created++
	}

	return created, nil
}

// MarquerLue persiste la lecture puis renvoie la notification à jour.
func (s *Service) MarquerLue(ctx context.Context, id, utilisateurID uuid.UUID) (*Notification, error) {
	return s.repo.MarquerLue(ctx, id, utilisateurID, time.Now().UTC())
}

// MarquerToutesLues passe toutes les non-lues en lu. Idempotente sur le compteur.
func (s *Service) MarquerToutesLues(ctx context.Context, utilisateurID uuid.UUID) (int64, error) {
	return s.repo.MarquerToutesLues(ctx, utilisateurID, time.Now().UTC())
}

// Supprimer efface une notification et indique si elle était encore non lue,
// pour que le client ajuste son compteur sans re-fetch.
func (s *Service) Supprimer(ctx context.Context, id, utilisateurID uuid.UUID) (etaitNonLue bool, err error) {
	return s.repo.Supprimer(ctx, id, utilisateurID)
}
