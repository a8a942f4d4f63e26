package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/logitrack/api/internal/auth"
	"github.com/logitrack/api/internal/repo"
	"github.com/logitrack/api/internal/util"
)

type utilisateurRepository interface {
	ListUtilisateurs(ctx context.Context) ([]repo.Utilisateur, error)
	GetUtilisateurByID(ctx context.Context, id uuid.UUID) (repo.Utilisateur, error)
	CreateUtilisateur(ctx context.Context, arg repo.CreateUtilisateurParams) (repo.Utilisateur, error)
	UpdateUtilisateur(ctx context.Context, arg repo.UpdateUtilisateurParams) (repo.Utilisateur, error)
	UpdateMotDePasse(ctx context.Context, id uuid.UUID, hash string) error
	RevokeOtherSessions(ctx context.Context, sujet uuid.UUID, keepHash string) error
	DeleteUtilisateur(ctx context.Context, id uuid.UUID) error
}

// UtilisateurService gère les comptes du tableau de bord (réservé aux admins).
type UtilisateurService struct {
	repo utilisateurRepository
}

// NewUtilisateurService crée une nouvelle instance.
func NewUtilisateurService(r utilisateurRepository) *UtilisateurService {
	return &UtilisateurService{repo: r}
}

// CreateUtilisateurInput encapsule les champs d'un nouveau compte.
type CreateUtilisateurInput struct {
	Prenom     string
	Nom        string
	Email      string
	MotDePasse string
	Role       string
	Actif      bool
}

// List renvoie tous les comptes.
func (s *UtilisateurService) List(ctx context.Context) ([]repo.Utilisateur, error) {
	users, err := s.repo.ListUtilisateurs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Role = auth.NormalizeRole(users[i].Role)
	}
	return users, nil
}

// Get renvoie un compte par identifiant.
func (s *UtilisateurService) Get(ctx context.Context, id uuid.UUID) (repo.Utilisateur, error) {
	user, err := s.repo.GetUtilisateurByID(ctx, id)
	if err != nil {
		return repo.Utilisateur{}, err
	}
	user.Role = auth.NormalizeRole(user.Role)
	return user, nil
}

// Create valide puis insère un nouveau compte.
func (s *UtilisateurService) Create(ctx context.Context, input CreateUtilisateurInput) (repo.Utilisateur, error) {
	if err := util.ValidateEmail(input.Email); err != nil {
		return repo.Utilisateur{}, err
	}
	if err := util.ValidatePassword(input.MotDePasse); err != nil {
		return repo.Utilisateur{}, err
	}
	if err := util.RequireString(input.Nom, "nom"); err != nil {
		return repo.Utilisateur{}, err
	}

	role, err := auth.ValidateRole(input.Role)
	if err != nil {
		return repo.Utilisateur{}, err
	}

	hash, err := auth.Hash(input.MotDePasse)
	if err != nil {
		return repo.Utilisateur{}, err
	}

	user, err := s.repo.CreateUtilisateur(ctx, repo.CreateUtilisateurParams{
		Prenom:         input.Prenom,
		Nom:            input.Nom,
		Email:          input.Email,
		MotDePasseHash: hash,
		Role:           role,
		Actif:          input.Actif,
	})
	if err != nil {
		return repo.Utilisateur{}, err
	}
	user.Role = auth.NormalizeRole(user.Role)
	return user, nil
}

// UpdateUtilisateurInput encapsule les champs modifiables.
type UpdateUtilisateurInput struct {
	ID     uuid.UUID
	Prenom string
	Nom    string
	Role   string
	Actif  bool
}

// Update modifie nom, rôle et statut d'un compte.
func (s *UtilisateurService) Update(ctx context.Context, input UpdateUtilisateurInput) (repo.Utilisateur, error) {
	if err := util.RequireString(input.Nom, "nom"); err != nil {
		return repo.Utilisateur{}, err
	}

	role, err := auth.ValidateRole(input.Role)
	if err != nil {
		return repo.Utilisateur{}, err
	}

	user, err := s.repo.UpdateUtilisateur(ctx, repo.UpdateUtilisateurParams{
		ID:     input.ID,
		Prenom: input.Prenom,
		Nom:    input.Nom,
		Role:   role,
		Actif:  input.Actif,
	})
	if err != nil {
		return repo.Utilisateur{}, err
	}
	user.Role = auth.NormalizeRole(user.Role)
	return user, nil
}

// ChangerMotDePasse remplace le mot de passe après vérification de l'actuel.
func (s *UtilisateurService) ChangerMotDePasse(ctx context.Context, id uuid.UUID, actuel, nouveau string) error {
	user, err := s.repo.GetUtilisateurByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := auth.Verify(actuel, user.MotDePasseHash)
	if err != nil || !ok {
		return ErrIdentifiantsInvalides
	}

	if err := util.ValidatePassword(nouveau); err != nil {
		return err
	}

	hash, err := auth.Hash(nouveau)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateMotDePasse(ctx, id, hash); err != nil {
		return err
	}

	// Le nouveau mot de passe invalide les sessions ouvertes ailleurs ; le
	// token d'accès courant reste valable jusqu'à son expiration.
	return s.repo.RevokeOtherSessions(ctx, id, "")
}

// Delete supprime un compte. Un admin ne peut pas se supprimer lui-même.
func (s *UtilisateurService) Delete(ctx context.Context, id, demandeur uuid.UUID) error {
	if id == demandeur {
		return errors.New("impossible de supprimer son propre compte")
	}
	return s.repo.DeleteUtilisateur(ctx, id)
}
