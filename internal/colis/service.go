package colis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/logitrack/api/internal/alert"
	"github.com/logitrack/api/internal/livreur"
	"github.com/logitrack/api/internal/notification"
	"github.com/logitrack/api/internal/storage"
	"github.com/logitrack/api/internal/util"
)

type colisRepository interface {
	List(ctx context.Context, filter Filter) ([]Colis, error)
	GetByID(ctx context.Context, id uuid.UUID) (Colis, error)
	GetByCode(ctx context.Context, code string) (Colis, error)
	Create(ctx context.Context, input CreateInput) (Colis, error)
	Update(ctx context.Context, input UpdateInput) (Colis, error)
	UpdateStatut(ctx context.Context, id uuid.UUID, de, vers string, parID uuid.UUID) (Colis, error)
	AssignerLivreur(ctx context.Context, id uuid.UUID, livreurID *uuid.UUID) (Colis, error)
	SetPreuve(ctx context.Context, id uuid.UUID, url string) (Colis, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Historique(ctx context.Context, colisID uuid.UUID) ([]HistoriqueStatut, error)
}

type livreurResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (livreur.Livreur, error)
}

type boiteNotifications interface {
	Creer(ctx context.Context, input notification.CreateInput) (*notification.Notification, error)
}

// Service applique le cycle de vie des colis.
type Service struct {
	repo     colisRepository
	livreurs livreurResolver
	inbox    boiteNotifications
	alertes  alert.Notifier
	uploader storage.Uploader
}

// NewService crée une instance du service.
func NewService(repo colisRepository, livreurs livreurResolver, inbox boiteNotifications, alertes alert.Notifier, uploader storage.Uploader) *Service {
	return &Service{repo: repo, livreurs: livreurs, inbox: inbox, alertes: alertes, uploader: uploader}
}

// Lister renvoie les colis filtrés.
func (s *Service) Lister(ctx context.Context, filter Filter) ([]Colis, error) {
	if filter.Statut != "" && !IsValidStatut(filter.Statut) {
		return nil, ErrStatutInvalide
	}
	return s.repo.List(ctx, filter)
}

// Get renvoie un colis par identifiant.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Colis, error) {
	return s.repo.GetByID(ctx, id)
}

// GetParCode renvoie un colis par code de suivi.
func (s *Service) GetParCode(ctx context.Context, code string) (Colis, error) {
	return s.repo.GetByCode(ctx, code)
}

// Creer valide puis insère un nouveau colis en attente.
func (s *Service) Creer(ctx context.Context, input CreateInput) (Colis, error) {
	if err := util.RequireString(input.Adresse, "adresse"); err != nil {
		return Colis{}, err
	}
	if err := util.RequireString(input.Ville, "ville"); err != nil {
		return Colis{}, err
	}
	if input.PrixCentimes < 0 || input.FraisCentimes < 0 {
		return Colis{}, errors.New("montant négatif")
	}

	return s.repo.Create(ctx, input)
}

// Update modifie les champs hors statut.
func (s *Service) Update(ctx context.Context, input UpdateInput) (Colis, error) {
	if err := util.RequireString(input.Adresse, "adresse"); err != nil {
		return Colis{}, err
	}
	if input.PrixCentimes < 0 || input.FraisCentimes < 0 {
		return Colis{}, errors.New("montant négatif")
	}

	return s.repo.Update(ctx, input)
}

// Supprimer efface un colis.
func (s *Service) Supprimer(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Historique renvoie la trace des statuts d'un colis.
func (s *Service) Historique(ctx context.Context, id uuid.UUID) ([]HistoriqueStatut, error) {
	return s.repo.Historique(ctx, id)
}

// ChangerStatut applique une transition légale et notifie les intéressés.
func (s *Service) ChangerStatut(ctx context.Context, id uuid.UUID, vers string, parID uuid.UUID) (Colis, error) {
	vers = strings.ToLower(strings.TrimSpace(vers))
	if !IsValidStatut(vers) {
		return Colis{}, ErrStatutInvalide
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Colis{}, err
	}

	if !PeutTransiter(current.Statut, vers) {
		return Colis{}, ErrTransitionInterdite
	}

	updated, err := s.repo.UpdateStatut(ctx, id, current.Statut, vers, parID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Le statut a changé entre la lecture et l'update : transition concurrente.
			return Colis{}, ErrTransitionInterdite
		}
		return Colis{}, err
	}

	s.notifierStatut(ctx, updated)
	return updated, nil
}

func (s *Service) notifierStatut(ctx context.Context, c Colis) {
	if c.LivreurID != nil && s.inbox != nil {
		if l, err := s.livreurs.GetByID(ctx, *c.LivreurID); err == nil && l.UtilisateurID != nil {
			lien := "/colis/" + c.ID.String()
			typ := notification.TypeInfo
			if c.Statut == StatutRetourne || c.Statut == StatutAnnule {
				typ = notification.TypeWarning
			}
			if _, err := s.inbox.Creer(ctx, notification.CreateInput{
				UtilisateurID: *l.UtilisateurID,
				Titre:         "Colis " + c.Code,
				Message:       fmt.Sprintf("Le colis %s est passé au statut %s", c.Code, c.Statut),
				Type:          typ,
				Lien:          &lien,
			}); err != nil {
				log.Warn().Err(err).Str("colis", c.Code).Msg("colis: notification du livreur impossible")
			}
		}
	}

	// Les retours et annulations remontent aussi sur le canal d'alertes opérationnelles.
	if c.Statut == StatutRetourne || c.Statut == StatutAnnule {
		if err := alert.Notify(ctx, s.alertes, alert.Message{
			Titre:    "Colis " + c.Code,
			Texte:    fmt.Sprintf("Statut %s (ville %s)", c.Statut, c.Ville),
			Severite: alert.SeveriteWarning,
		}); err != nil {
			log.Warn().Err(err).Str("colis", c.Code).Msg("colis: alerte webhook impossible")
		}
	}
}

// Assigner affecte un livreur au colis et prévient son compte.
func (s *Service) Assigner(ctx context.Context, id uuid.UUID, livreurID uuid.UUID) (Colis, error) {
	l, err := s.livreurs.GetByID(ctx, livreurID)
	if err != nil {
		return Colis{}, err
	}

	updated, err := s.repo.AssignerLivreur(ctx, id, &livreurID)
	if err != nil {
		return Colis{}, err
	}

	if l.UtilisateurID != nil && s.inbox != nil {
		lien := "/colis/" + updated.ID.String()
		if _, err := s.inbox.Creer(ctx, notification.CreateInput{
			UtilisateurID: *l.UtilisateurID,
			Titre:         "Nouveau colis affecté",
			Message:       fmt.Sprintf("Le colis %s vous a été affecté (%s, %s)", updated.Code, updated.Adresse, updated.Ville),
			Type:          notification.TypeInfo,
			Lien:          &lien,
		}); err != nil {
			log.Warn().Err(err).Str("colis", updated.Code).Msg("colis: notification d'affectation impossible")
		}
	}

	return updated, nil
}

// Desassigner retire le livreur du colis.
func (s *Service) Desassigner(ctx context.Context, id uuid.UUID) (Colis, error) {
	return s.repo.AssignerLivreur(ctx, id, nil)
}

// TeleverserPreuve stocke la preuve de livraison et attache son URL au colis.
func (s *Service) TeleverserPreuve(ctx context.Context, id uuid.UUID, contentType string, body []byte) (Colis, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Colis{}, err
	}

	result, err := s.uploader.Upload(ctx, storage.UploadInput{
		Key:         "preuves/" + c.ID.String(),
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		return Colis{}, fmt.Errorf("téléversement de la preuve: %w", err)
	}

	return s.repo.SetPreuve(ctx, id, result.URL)
}
