package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/logitrack/api/internal/repo"
)

type stubInboxRepo struct {
	list       []Notification
	nonLues    int
	created    []CreateInput
	createErr  map[uuid.UUID]error
	marquees   int64
	supprimees map[uuid.UUID]bool
	listLimit  int
}

func (s *stubInboxRepo) ListByUtilisateur(ctx context.Context, utilisateurID uuid.UUID, limit int) ([]Notification, error) {
	s.listLimit = limit
	if len(s.list) > limit {
		return s.list[:limit], nil
	}
	return s.list, nil
}

func (s *stubInboxRepo) CountNonLues(ctx context.Context, utilisateurID uuid.UUID) (int, error) {
	return s.nonLues, nil
}

func (s *stubInboxRepo) Create(ctx context.Context, input CreateInput) (*Notification, error) {
	if err := s.createErr[input.UtilisateurID]; err != nil {
		return nil, err
	}
	s.created = append(s.created, input)
	return &Notification{
		ID:            uuid.New(),
		UtilisateurID: input.UtilisateurID,
		Titre:         input.Titre,
		Message:       input.Message,
		Type:          input.Type,
		Lien:          input.Lien,
		CreeLe:        time.Now().UTC(),
	}, nil
}

func (s *stubInboxRepo) MarquerLue(ctx context.Context, id, utilisateurID uuid.UUID, quand time.Time) (*Notification, error) {
	return &Notification{ID: id, UtilisateurID: utilisateurID, Lue: true, LueLe: &quand}, nil
}

func (s *stubInboxRepo) MarquerToutesLues(ctx context.Context, utilisateurID uuid.UUID, quand time.Time) (int64, error) {
	marked := s.marquees
	s.marquees = 0
	return marked, nil
}

func (s *stubInboxRepo) Supprimer(ctx context.Context, id, utilisateurID uuid.UUID) (bool, error) {
	etaitNonLue, ok := s.supprimees[id]
	if !ok {
		return false, ErrNotFound
	}
	return etaitNonLue, nil
}

type stubAnnuaire struct {
	users []repo.Utilisateur
}

func (s *stubAnnuaire) ListUtilisateursActifsByRole(ctx context.Context, role string) ([]repo.Utilisateur, error) {
	return s.users, nil
}

func TestInboxCapsListAndCounts(t *testing.T) {
	var list []Notification
	for i := 0; i < 80; i++ {
		list = append(list, Notification{ID: uuid.New()})
	}
	repoStub := &stubInboxRepo{list: list, nonLues: 7}
	svc := NewService(repoStub, &stubAnnuaire{})

	inbox, err := svc.Inbox(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}

	if repoStub.listLimit != ListeMax {
		t.Fatalf("limite demandée = %d, attendu %d", repoStub.listLimit, ListeMax)
	}
	if len(inbox.Notifications) != ListeMax {
		t.Fatalf("taille de la boîte = %d, attendu %d", len(inbox.Notifications), ListeMax)
	}
	if inbox.NonLues != 7 {
		t.Fatalf("non lues = %d", inbox.NonLues)
	}
}

func TestInboxNeverReturnsNilSlice(t *testing.T) {
	svc := NewService(&stubInboxRepo{}, &stubAnnuaire{})

	inbox, err := svc.Inbox(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if inbox.Notifications == nil {
		t.Fatal("la liste ne doit jamais être nil")
	}
}

func TestCreerValidatesTitreAndType(t *testing.T) {
	svc := NewService(&stubInboxRepo{}, &stubAnnuaire{})

	if _, err := svc.Creer(context.Background(), CreateInput{UtilisateurID: uuid.New(), Titre: "  "}); err == nil {
		t.Fatal("un titre vide devrait être rejeté")
	}

	if _, err := svc.Creer(context.Background(), CreateInput{
		UtilisateurID: uuid.New(),
		Titre:         "Alerte",
		Type:          "urgent",
	}); !errors.Is(err, ErrTypeInvalid) {
		t.Fatalf("attendu ErrTypeInvalid, obtenu %v", err)
	}
}

func TestCreerDefaultsTypeToInfo(t *testing.T) {
	repoStub := &stubInboxRepo{}
	svc := NewService(repoStub, &stubAnnuaire{})

	n, err := svc.Creer(context.Background(), CreateInput{UtilisateurID: uuid.New(), Titre: "Bienvenue"})
	if err != nil {
		t.Fatalf("creer: %v", err)
	}
	if n.Type != TypeInfo {
		t.Fatalf("type = %q, attendu %q", n.Type, TypeInfo)
	}
}

func TestCreerPourRoleContinuesOnPartialFailure(t *testing.T) {
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	repoStub := &stubInboxRepo{
		createErr: map[uuid.UUID]error{u2: errors.New("insertion refusée")},
	}
	annuaire := &stubAnnuaire{users: []repo.Utilisateur{{ID: u1}, {ID: u2}, {ID: u3}}}
	svc := NewService(repoStub, annuaire)

	count, err := svc.CreerPourRole(context.Background(), "livreur", "Tournée", "Nouvelle tournée disponible", TypeInfo, nil)
	if err != nil {
		t.Fatalf("diffusion: %v", err)
	}
	if count != 2 {
		t.Fatalf("destinataires notifiés = %d, attendu 2", count)
	}
}

func TestCreerPourRoleRejectsInvalidInputBeforeFanOut(t *testing.T) {
	repoStub := &stubInboxRepo{}
	annuaire := &stubAnnuaire{users: []repo.Utilisateur{{ID: uuid.New()}, {ID: uuid.New()}}}
	svc := NewService(repoStub, annuaire)

	count, err := svc.CreerPourRole(context.Background(), "admin", "Titre", "Message", "urgent", nil)
	if !errors.Is(err, ErrTypeInvalid) {
		t.Fatalf("attendu ErrTypeInvalid, obtenu %v", err)
	}
	if count != 0 || len(repoStub.created) != 0 {
		t.Fatalf("aucune insertion attendue, obtenu count=%d created=%d", count, len(repoStub.created))
	}

	if _, err := svc.CreerPourRole(context.Background(), "admin", "  ", "Message", TypeInfo, nil); err == nil {
		t.Fatal("un titre vide devrait être rejeté avant la diffusion")
	}
	if len(repoStub.created) != 0 {
		t.Fatalf("aucune insertion attendue, obtenu %d", len(repoStub.created))
	}
}

func TestCreerPourRoleRejectsUnknownRole(t *testing.T) {
	svc := NewService(&stubInboxRepo{}, &stubAnnuaire{})

	if _, err := svc.CreerPourRole(context.Background(), "Stagiaire", "T", "M", TypeInfo, nil); err == nil {
		t.Fatal("un rôle inconnu devrait être rejeté")
	}
}

func TestSupprimerSignaleNonLue(t *testing.T) {
	id := uuid.New()
	repoStub := &stubInboxRepo{supprimees: map[uuid.UUID]bool{id: true}}
	svc := NewService(repoStub, &stubAnnuaire{})

	etaitNonLue, err := svc.Supprimer(context.Background(), id, uuid.New())
	if err != nil {
		t.Fatalf("supprimer: %v", err)
	}
	if !etaitNonLue {
		t.Fatal("la notification était non lue")
	}

	if _, err := svc.Supprimer(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("attendu ErrNotFound, obtenu %v", err)
	}
}
