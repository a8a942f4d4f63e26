package bon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/logitrack/api/internal/colis"
)

type bonRepository interface {
	List(ctx context.Context, typ string, limit, offset int) ([]Bon, error)
	GetByID(ctx context.Context, id uuid.UUID) (Bon, error)
	Create(ctx context.Context, params CreateParams) (Bon, error)
	UpdateStatut(ctx context.Context, id uuid.UUID, de, vers string) (Bon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gestionColis interface {
	Get(ctx context.Context, id uuid.UUID) (colis.Colis, error)
	ChangerStatut(ctx context.Context, id uuid.UUID, vers string, parID uuid.UUID) (colis.Colis, error)
	Assigner(ctx context.Context, id uuid.UUID, livreurID uuid.UUID) (colis.Colis, error)
}

// Service orchestre les bordereaux et leurs effets sur les colis rattachés.
type Service struct {
	repo  bonRepository
	colis gestionColis
}

// NewService crée une instance du service.
func NewService(repo bonRepository, gestion gestionColis) *Service {
	return &Service{repo: repo, colis: gestion}
}

// Lister renvoie les bons, éventuellement filtrés par type.
func (s *Service) Lister(ctx context.Context, typ string, limit, offset int) ([]Bon, error) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ != "" && !IsValidType(typ) {
		return nil, ErrTypeInvalide
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, typ, limit, offset)
}

// Get renvoie un bon par identifiant.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Bon, error) {
	return s.repo.GetByID(ctx, id)
}

// CreerDistribution crée un bon de distribution en brouillon pour un livreur.
// Chaque colis doit exister et être en attente.
func (s *Service) CreerDistribution(ctx context.Context, livreurID uuid.UUID, colisIDs []uuid.UUID) (Bon, error) {
	if len(colisIDs) == 0 {
		return Bon{}, ErrAucunColis
	}

	for _, id := range colisIDs {
		c, err := s.colis.Get(ctx, id)
		if err != nil {
			return Bon{}, fmt.Errorf("colis %s: %w", id, err)
		}
		if c.Statut != colis.StatutEnAttente {
			return Bon{}, fmt.Errorf("colis %s: %w (statut %s)", c.Code, ErrColisNonEligible, c.Statut)
		}
	}

	return s.repo.Create(ctx, CreateParams{
		Type:      TypeDistribution,
		LivreurID: &livreurID,
		ColisIDs:  colisIDs,
	})
}

// CreerRetour crée un bon de retour en brouillon.
// Chaque colis doit être en cours de tournée.
func (s *Service) CreerRetour(ctx context.Context, livreurID *uuid.UUID, colisIDs []uuid.UUID) (Bon, error) {
	if len(colisIDs) == 0 {
		return Bon{}, ErrAucunColis
	}

	for _, id := range colisIDs {
		c, err := s.colis.Get(ctx, id)
		if err != nil {
			return Bon{}, fmt.Errorf("colis %s: %w", id, err)
		}
		if c.Statut != colis.StatutEnCours {
			return Bon{}, fmt.Errorf("colis %s: %w (statut %s)", c.Code, ErrColisNonEligible, c.Statut)
		}
	}

	return s.repo.Create(ctx, CreateParams{
		Type:      TypeRetour,
		LivreurID: livreurID,
		ColisIDs:  colisIDs,
	})
}

// CreerPaiement crée un bon de paiement en brouillon pour une entreprise.
// Le montant est en centimes; il couvre les colis listés, livrés pour l'entreprise.
func (s *Service) CreerPaiement(ctx context.Context, entrepriseID uuid.UUID, montantCentimes int64, colisIDs []uuid.UUID) (Bon, error) {
	if len(colisIDs) == 0 {
		return Bon{}, ErrAucunColis
	}
	if montantCentimes < 0 {
		return Bon{}, errors.New("montant négatif")
	}

	for _, id := range colisIDs {
		c, err := s.colis.Get(ctx, id)
		if err != nil {
			return Bon{}, fmt.Errorf("colis %s: %w", id, err)
		}
		if c.Statut != colis.StatutLivre {
			return Bon{}, fmt.Errorf("colis %s: %w (statut %s)", c.Code, ErrColisNonEligible, c.Statut)
		}
		if c.EntrepriseID != entrepriseID {
			return Bon{}, fmt.Errorf("colis %s: n'appartient pas à l'entreprise", c.Code)
		}
	}

	return s.repo.Create(ctx, CreateParams{
		Type:            TypePaiement,
		EntrepriseID:    &entrepriseID,
		MontantCentimes: &montantCentimes,
		ColisIDs:        colisIDs,
	})
}

// Valider fait passer le bon de brouillon à valide et applique ses effets:
// distribution affecte le livreur et lance les colis, retour ramène les colis
// au statut retourne. Un paiement validé n'a pas d'effet sur les colis.
func (s *Service) Valider(ctx context.Context, id, parID uuid.UUID) (Bon, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Bon{}, err
	}
	if !PeutTransiter(b.Statut, StatutValide) {
		return Bon{}, ErrTransitionInterdite
	}

	validated, err := s.repo.UpdateStatut(ctx, id, b.Statut, StatutValide)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Statut changé entre la lecture et l'update : transition concurrente.
			return Bon{}, ErrTransitionInterdite
		}
		return Bon{}, err
	}

	switch validated.Type {
	case TypeDistribution:
		s.lancerColis(ctx, validated, parID)
	case TypeRetour:
		s.retournerColis(ctx, validated, parID)
	}

	return validated, nil
}

// lancerColis affecte le livreur du bon à chaque colis et le passe en cours.
// Un colis en échec n'interrompt pas les autres; l'écart est journalisé.
func (s *Service) lancerColis(ctx context.Context, b Bon, parID uuid.UUID) {
	for _, colisID := range b.ColisIDs {
		if b.LivreurID != nil {
			if _, err := s.colis.Assigner(ctx, colisID, *b.LivreurID); err != nil {
				log.Warn().Err(err).Str("bon", b.Code).Str("colis", colisID.String()).
					Msg("bon: affectation du livreur impossible")
				continue
			}
		}
		if _, err := s.colis.ChangerStatut(ctx, colisID, colis.StatutEnCours, parID); err != nil {
			log.Warn().Err(err).Str("bon", b.Code).Str("colis", colisID.String()).
				Msg("bon: passage du colis en cours impossible")
		}
	}
}

func (s *Service) retournerColis(ctx context.Context, b Bon, parID uuid.UUID) {
	for _, colisID := range b.ColisIDs {
		if _, err := s.colis.ChangerStatut(ctx, colisID, colis.StatutRetourne, parID); err != nil {
			log.Warn().Err(err).Str("bon", b.Code).Str("colis", colisID.String()).
				Msg("bon: retour du colis impossible")
		}
	}
}

// Cloturer fait passer un bon validé à l'état clôturé.
func (s *Service) Cloturer(ctx context.Context, id uuid.UUID) (Bon, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Bon{}, err
	}
	if !PeutTransiter(b.Statut, StatutCloture) {
		return Bon{}, ErrTransitionInterdite
	}

	closed, err := s.repo.UpdateStatut(ctx, id, b.Statut, StatutCloture)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Bon{}, ErrTransitionInterdite
		}
		return Bon{}, err
	}
	return closed, nil
}

// Supprimer efface un bon encore en brouillon.
func (s *Service) Supprimer(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
