package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/logitrack/api/internal/auth"
	"github.com/logitrack/api/internal/repo"
)

type stubCompteRepo struct {
	user             repo.Utilisateur
	updatedHash      string
	revokedSujet     uuid.UUID
	revocationCalled bool
}

func (s *stubCompteRepo) ListUtilisateurs(ctx context.Context) ([]repo.Utilisateur, error) {
	return []repo.Utilisateur{s.user}, nil
}

func (s *stubCompteRepo) GetUtilisateurByID(ctx context.Context, id uuid.UUID) (repo.Utilisateur, error) {
	if id != s.user.ID {
		return repo.Utilisateur{}, repo.ErrNotFound
	}
	return s.user, nil
}

func (s *stubCompteRepo) CreateUtilisateur(ctx context.Context, arg repo.CreateUtilisateurParams) (repo.Utilisateur, error) {
	return repo.Utilisateur{
		ID:     uuid.New(),
		Prenom: arg.Prenom,
		Nom:    arg.Nom,
		Email:  arg.Email,
		Role:   arg.Role,
		Actif:  arg.Actif,
	}, nil
}

func (s *stubCompteRepo) UpdateUtilisateur(ctx context.Context, arg repo.UpdateUtilisateurParams) (repo.Utilisateur, error) {
	s.user.Prenom = arg.Prenom
	s.user.Nom = arg.Nom
	s.user.Role = arg.Role
	s.user.Actif = arg.Actif
	return s.user, nil
}

func (s *stubCompteRepo) UpdateMotDePasse(ctx context.Context, id uuid.UUID, hash string) error {
	s.updatedHash = hash
	return nil
}

func (s *stubCompteRepo) RevokeOtherSessions(ctx context.Context, sujet uuid.UUID, keepHash string) error {
	s.revocationCalled = true
	s.revokedSujet = sujet
	return nil
}

func (s *stubCompteRepo) DeleteUtilisateur(ctx context.Context, id uuid.UUID) error {
	return nil
}

func compteAvecMotDePasse(t *testing.T, password string) repo.Utilisateur {
	t.Helper()
	hash, err := auth.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return repo.Utilisateur{
		ID:             uuid.New(),
		Prenom:         "Yassine",
		Nom:            "Berrada",
		Email:          "yassine@logitrack.app",
		MotDePasseHash: hash,
		Role:           "Gestionnaire",
		Actif:          true,
	}
}

func TestChangerMotDePasseRevokesOtherSessions(t *testing.T) {
	user := compteAvecMotDePasse(t, "AncienSecret1")
	repoStub := &stubCompteRepo{user: user}
	svc := NewUtilisateurService(repoStub)

	if err := svc.ChangerMotDePasse(context.Background(), user.ID, "AncienSecret1", "NouveauSecret1"); err != nil {
		t.Fatalf("changement: %v", err)
	}

	if repoStub.updatedHash == "" {
		t.Fatal("le hash devrait avoir été remplacé")
	}
	if !repoStub.revocationCalled {
		t.Fatal("les autres sessions devraient être révoquées")
	}
	if repoStub.revokedSujet != user.ID {
		t.Fatalf("sujet révoqué = %s, attendu %s", repoStub.revokedSujet, user.ID)
	}
}

func TestChangerMotDePasseRejectsWrongCurrent(t *testing.T) {
	user := compteAvecMotDePasse(t, "AncienSecret1")
	repoStub := &stubCompteRepo{user: user}
	svc := NewUtilisateurService(repoStub)

	err := svc.ChangerMotDePasse(context.Background(), user.ID, "mauvais", "NouveauSecret1")
	if !errors.Is(err, ErrIdentifiantsInvalides) {
		t.Fatalf("attendu ErrIdentifiantsInvalides, obtenu %v", err)
	}
	if repoStub.updatedHash != "" || repoStub.revocationCalled {
		t.Fatal("ni mise à jour ni révocation attendue sur un échec")
	}
}

func TestChangerMotDePasseRejectsWeakPassword(t *testing.T) {
	user := compteAvecMotDePasse(t, "AncienSecret1")
	repoStub := &stubCompteRepo{user: user}
	svc := NewUtilisateurService(repoStub)

	if err := svc.ChangerMotDePasse(context.Background(), user.ID, "AncienSecret1", "court"); err == nil {
		t.Fatal("un mot de passe trop court devrait être rejeté")
	}
	if repoStub.revocationCalled {
		t.Fatal("aucune révocation attendue sur un échec de validation")
	}
}
