package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/logitrack/api/internal/client"
	"github.com/logitrack/api/internal/colis"
	"github.com/logitrack/api/internal/entreprise"
	"github.com/logitrack/api/internal/livreur"
)

type stubColis struct {
	calls int
	rows  []colis.Colis
	err   error
}

func (s *stubColis) Recentes(ctx context.Context, limit int) ([]colis.Colis, error) {
	s.calls++
	return s.rows, s.err
}

type stubClients struct {
	calls int
	rows  []client.Client
	err   error
}

func (s *stubClients) Recentes(ctx context.Context, limit int) ([]client.Client, error) {
	s.calls++
	return s.rows, s.err
}

type stubLivreurs struct {
	calls int
	rows  []livreur.Livreur
	err   error
}

func (s *stubLivreurs) Recentes(ctx context.Context, limit int) ([]livreur.Livreur, error) {
	s.calls++
	return s.rows, s.err
}

type stubEntreprises struct {
	calls int
	rows  []entreprise.Entreprise
	err   error
}

func (s *stubEntreprises) Recentes(ctx context.Context, limit int) ([]entreprise.Entreprise, error) {
	s.calls++
	return s.rows, s.err
}

func newStubs() (*stubColis, *stubClients, *stubLivreurs, *stubEntreprises) {
	return &stubColis{}, &stubClients{}, &stubLivreurs{}, &stubEntreprises{}
}

func TestRechercherSkipsShortQueries(t *testing.T) {
	c, cl, l, e := newStubs()
	svc := NewService(c, cl, l, e)

	for _, q := range []string{"", "a", " z "} {
		results := svc.Rechercher(context.Background(), q)
		if len(results) != 0 {
			t.Fatalf("q=%q: résultats inattendus %v", q, results)
		}
	}

	if c.calls+cl.calls+l.calls+e.calls != 0 {
		t.Fatal("une requête trop courte ne doit déclencher aucun accès aux données")
	}
}

func TestRechercherMatchesCaseInsensitive(t *testing.T) {
	c, cl, l, e := newStubs()
	cl.rows = []client.Client{
		{ID: uuid.New(), Prenom: "Karim", Nom: "HADDAD", Telephone: "0601020304"},
		{ID: uuid.New(), Prenom: "Lina", Nom: "Mansour", Telephone: "0605060708"},
	}
	svc := NewService(c, cl, l, e)

	results := svc.Rechercher(context.Background(), "haddad")
	if len(results) != 1 {
		t.Fatalf("résultats = %d, attendu 1", len(results))
	}
	if results[0].Categorie != CategorieClient {
		t.Fatalf("catégorie = %q", results[0].Categorie)
	}
	if results[0].Titre != "Karim HADDAD" {
		t.Fatalf("titre = %q", results[0].Titre)
	}
}

func TestRechercherCapsPerCategory(t *testing.T) {
	c, cl, l, e := newStubs()
	for i := 0; i < fenetreRecente; i++ {
		c.rows = append(c.rows, colis.Colis{
			ID:    uuid.New(),
			Code:  fmt.Sprintf("COL-20260829-%06d", i),
			Ville: "Casablanca",
		})
	}
	svc := NewService(c, cl, l, e)

	results := svc.Rechercher(context.Background(), "casablanca")
	if len(results) != maxParCategorie {
		t.Fatalf("résultats = %d, attendu %d", len(results), maxParCategorie)
	}
}

func TestRechercherIgnoresFailingCategory(t *testing.T) {
	c, cl, l, e := newStubs()
	c.err = errors.New("base indisponible")
	e.rows = []entreprise.Entreprise{{ID: uuid.New(), Nom: "Atlas Express", Ville: "Rabat"}}
	svc := NewService(c, cl, l, e)

	results := svc.Rechercher(context.Background(), "atlas")
	if len(results) != 1 {
		t.Fatalf("résultats = %d, attendu 1 (la catégorie en échec est ignorée)", len(results))
	}
	if results[0].Categorie != CategorieEntreprise {
		t.Fatalf("catégorie = %q", results[0].Categorie)
	}
}

func TestRechercherFederatesCategories(t *testing.T) {
	c, cl, l, e := newStubs()
	c.rows = []colis.Colis{{ID: uuid.New(), Code: "COL-1", Ville: "Fès"}}
	l.rows = []livreur.Livreur{{ID: uuid.New(), Prenom: "Omar", Nom: "Fessi", Zone: "Fès"}}
	svc := NewService(c, cl, l, e)

	results := svc.Rechercher(context.Background(), "fès")
	if len(results) != 2 {
		t.Fatalf("résultats = %d, attendu 2", len(results))
	}
}
