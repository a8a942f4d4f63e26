package bon

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/logitrack/api/internal/colis"
)

type stubBonRepo struct {
	bons map[uuid.UUID]Bon
}

func (s *stubBonRepo) List(ctx context.Context, typ string, limit, offset int) ([]Bon, error) {
	var out []Bon
	for _, b := range s.bons {
		if typ == "" || b.Type == typ {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBonRepo) GetByID(ctx context.Context, id uuid.UUID) (Bon, error) {
	b, ok := s.bons[id]
	if !ok {
		return Bon{}, ErrNotFound
	}
	return b, nil
}

func (s *stubBonRepo) Create(ctx context.Context, params CreateParams) (Bon, error) {
	b := Bon{
		ID:              uuid.New(),
		Code:            "BON-TEST",
		Type:            params.Type,
		Statut:          StatutBrouillon,
		LivreurID:       params.LivreurID,
		EntrepriseID:    params.EntrepriseID,
		MontantCentimes: params.MontantCentimes,
		ColisIDs:        params.ColisIDs,
	}
	if s.bons == nil {
		s.bons = make(map[uuid.UUID]Bon)
	}
	s.bons[b.ID] = b
	return b, nil
}

func (s *stubBonRepo) UpdateStatut(ctx context.Context, id uuid.UUID, de, vers string) (Bon, error) {
	b, ok := s.bons[id]
	if !ok || b.Statut != de {
		return Bon{}, ErrNotFound
	}
	b.Statut = vers
	s.bons[id] = b
	return b, nil
}

func (s *stubBonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	b, ok := s.bons[id]
	if !ok || b.Statut != StatutBrouillon {
		return ErrNotFound
	}
	delete(s.bons, id)
	return nil
}

type stubGestionColis struct {
	colis       map[uuid.UUID]colis.Colis
	assignes    []uuid.UUID
	transitions map[uuid.UUID]string
}

func (s *stubGestionColis) Get(ctx context.Context, id uuid.UUID) (colis.Colis, error) {
	c, ok := s.colis[id]
	if !ok {
		return colis.Colis{}, colis.ErrNotFound
	}
	return c, nil
}

func (s *stubGestionColis) ChangerStatut(ctx context.Context, id uuid.UUID, vers string, parID uuid.UUID) (colis.Colis, error) {
	c, ok := s.colis[id]
	if !ok {
		return colis.Colis{}, colis.ErrNotFound
	}
	c.Statut = vers
	s.colis[id] = c
	if s.transitions == nil {
		s.transitions = make(map[uuid.UUID]string)
	}
	s.transitions[id] = vers
	return c, nil
}

func (s *stubGestionColis) Assigner(ctx context.Context, id uuid.UUID, livreurID uuid.UUID) (colis.Colis, error) {
	c, ok := s.colis[id]
	if !ok {
		return colis.Colis{}, colis.ErrNotFound
	}
	c.LivreurID = &livreurID
	s.colis[id] = c
	s.assignes = append(s.assignes, id)
	return c, nil
}

func TestCreerDistributionRequiresColisEnAttente(t *testing.T) {
	c1, c2 := uuid.New(), uuid.New()
	gestion := &stubGestionColis{colis: map[uuid.UUID]colis.Colis{
		c1: {ID: c1, Statut: colis.StatutEnAttente},
		c2: {ID: c2, Code: "COL-2", Statut: colis.StatutLivre},
	}}
	svc := NewService(&stubBonRepo{}, gestion)

	if _, err := svc.CreerDistribution(context.Background(), uuid.New(), nil); !errors.Is(err, ErrAucunColis) {
		t.Fatalf("attendu ErrAucunColis, obtenu %v", err)
	}

	if _, err := svc.CreerDistribution(context.Background(), uuid.New(), []uuid.UUID{c1, c2}); !errors.Is(err, ErrColisNonEligible) {
		t.Fatalf("attendu ErrColisNonEligible, obtenu %v", err)
	}

	b, err := svc.CreerDistribution(context.Background(), uuid.New(), []uuid.UUID{c1})
	if err != nil {
		t.Fatalf("création: %v", err)
	}
	if b.Statut != StatutBrouillon || b.Type != TypeDistribution {
		t.Fatalf("bon inattendu: %+v", b)
	}
}

func TestValiderDistributionLancesColis(t *testing.T) {
	livreurID := uuid.New()
	c1, c2 := uuid.New(), uuid.New()
	gestion := &stubGestionColis{colis: map[uuid.UUID]colis.Colis{
		c1: {ID: c1, Statut: colis.StatutEnAttente},
		c2: {ID: c2, Statut: colis.StatutEnAttente},
	}}
	repo := &stubBonRepo{}
	svc := NewService(repo, gestion)

	b, err := svc.CreerDistribution(context.Background(), livreurID, []uuid.UUID{c1, c2})
	if err != nil {
		t.Fatalf("création: %v", err)
	}

	validated, err := svc.Valider(context.Background(), b.ID, uuid.New())
	if err != nil {
		t.Fatalf("validation: %v", err)
	}
	if validated.Statut != StatutValide {
		t.Fatalf("statut = %q", validated.Statut)
	}

	if len(gestion.assignes) != 2 {
		t.Fatalf("colis assignés = %d, attendu 2", len(gestion.assignes))
	}
	for _, id := range []uuid.UUID{c1, c2} {
		if gestion.transitions[id] != colis.StatutEnCours {
			t.Fatalf("colis %s: transition = %q, attendu en_cours", id, gestion.transitions[id])
		}
	}
}

func TestValiderRetourRamenesColis(t *testing.T) {
	c1 := uuid.New()
	gestion := &stubGestionColis{colis: map[uuid.UUID]colis.Colis{
		c1: {ID: c1, Statut: colis.StatutEnCours},
	}}
	svc := NewService(&stubBonRepo{}, gestion)

	b, err := svc.CreerRetour(context.Background(), nil, []uuid.UUID{c1})
	if err != nil {
		t.Fatalf("création: %v", err)
	}

	if _, err := svc.Valider(context.Background(), b.ID, uuid.New()); err != nil {
		t.Fatalf("validation: %v", err)
	}
	if gestion.transitions[c1] != colis.StatutRetourne {
		t.Fatalf("transition = %q, attendu retourne", gestion.transitions[c1])
	}
}

func TestCreerPaiementChecksEntrepriseAndStatut(t *testing.T) {
	entrepriseID := uuid.New()
	c1, c2 := uuid.New(), uuid.New()
	gestion := &stubGestionColis{colis: map[uuid.UUID]colis.Colis{
		c1: {ID: c1, Statut: colis.StatutLivre, EntrepriseID: entrepriseID},
		c2: {ID: c2, Code: "COL-2", Statut: colis.StatutLivre, EntrepriseID: uuid.New()},
	}}
	svc := NewService(&stubBonRepo{}, gestion)

	if _, err := svc.CreerPaiement(context.Background(), entrepriseID, 150000, []uuid.UUID{c1, c2}); err == nil {
		t.Fatal("un colis d'une autre entreprise devrait être rejeté")
	}

	b, err := svc.CreerPaiement(context.Background(), entrepriseID, 150000, []uuid.UUID{c1})
	if err != nil {
		t.Fatalf("création: %v", err)
	}
	if b.MontantCentimes == nil || *b.MontantCentimes != 150000 {
		t.Fatalf("montant inattendu: %+v", b.MontantCentimes)
	}
}

func TestCycleDeVieBon(t *testing.T) {
	c1 := uuid.New()
	gestion := &stubGestionColis{colis: map[uuid.UUID]colis.Colis{
		c1: {ID: c1, Statut: colis.StatutEnAttente},
	}}
	repo := &stubBonRepo{}
	svc := NewService(repo, gestion)

	b, err := svc.CreerDistribution(context.Background(), uuid.New(), []uuid.UUID{c1})
	if err != nil {
		t.Fatalf("création: %v", err)
	}

	// Clôturer un brouillon est interdit.
	if _, err := svc.Cloturer(context.Background(), b.ID); !errors.Is(err, ErrTransitionInterdite) {
		t.Fatalf("attendu ErrTransitionInterdite, obtenu %v", err)
	}

	if _, err := svc.Valider(context.Background(), b.ID, uuid.New()); err != nil {
		t.Fatalf("validation: %v", err)
	}

	// Revalider un bon validé est interdit.
	if _, err := svc.Valider(context.Background(), b.ID, uuid.New()); !errors.Is(err, ErrTransitionInterdite) {
		t.Fatalf("attendu ErrTransitionInterdite, obtenu %v", err)
	}

	closed, err := svc.Cloturer(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("clôture: %v", err)
	}
	if closed.Statut != StatutCloture {
		t.Fatalf("statut = %q", closed.Statut)
	}

	// Un bon clôturé ne se supprime plus.
	if err := svc.Supprimer(context.Background(), b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("attendu ErrNotFound, obtenu %v", err)
	}
}
