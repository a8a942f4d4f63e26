package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/logitrack/api/internal/client"
	"github.com/logitrack/api/internal/colis"
	"github.com/logitrack/api/internal/entreprise"
	"github.com/logitrack/api/internal/livreur"
)

// Catégories de résultats.
const (
	CategorieColis      = "colis"
	CategorieClient     = "client"
	CategorieLivreur    = "livreur"
	CategorieEntreprise = "entreprise"
)

const (
	// minLongueur est la taille minimale de requête avant tout accès aux données.
	minLongueur = 2
	// fenetreRecente borne chaque catégorie aux N fiches les plus récentes.
	// La recherche est donc un filtre sur l'activité récente, pas un index global.
	fenetreRecente = 20
	// maxParCategorie plafonne le nombre de résultats renvoyés par catégorie.
	maxParCategorie = 5
)

// Result est une ligne de résultat fédéré, prête à afficher.
type Result struct {
	ID        string `json:"id"`
	Categorie string `json:"categorie"`
	Titre     string `json:"titre"`
	SousTitre string `json:"sous_titre,omitempty"`
	URL       string `json:"url"`
}

type colisRecents interface {
	Recentes(ctx context.Context, limit int) ([]colis.Colis, error)
}

type clientsRecents interface {
	Recentes(ctx context.Context, limit int) ([]client.Client, error)
}

type livreursRecents interface {
	Recentes(ctx context.Context, limit int) ([]livreur.Livreur, error)
}

type entreprisesRecentes interface {
	Recentes(ctx context.Context, limit int) ([]entreprise.Entreprise, error)
}

// Service interroge les quatre catégories et fusionne les résultats.
type Service struct {
	colis       colisRecents
	clients     clientsRecents
	livreurs    livreursRecents
	entreprises entreprisesRecentes
}

// NewService crée une instance du service.
func NewService(c colisRecents, cl clientsRecents, l livreursRecents, e entreprisesRecentes) *Service {
	return &Service{colis: c, clients: cl, livreurs: l, entreprises: e}
}

// Rechercher renvoie les correspondances des fiches récentes de chaque
// catégorie. Une requête trop courte ne déclenche aucun accès aux données.
// Une catégorie en échec est ignorée afin de ne pas vider tout le résultat.
func (s *Service) Rechercher(ctx context.Context, q string) []Result {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minLongueur {
		return []Result{}
	}
	q = strings.ToLower(q)

	results := make([]Result, 0, 4*maxParCategorie)
	results = append(results, s.chercherColis(ctx, q)...)
	results = append(results, s.chercherClients(ctx, q)...)
	results = append(results, s.chercherLivreurs(ctx, q)...)
	results = append(results, s.chercherEntreprises(ctx, q)...)
	return results
}

func contient(q string, champs ...string) bool {
	for _, champ := range champs {
		if strings.Contains(strings.ToLower(champ), q) {
			return true
		}
	}
	return false
}

func (s *Service) chercherColis(ctx context.Context, q string) []Result {
	rows, err := s.colis.Recentes(ctx, fenetreRecente)
	if err != nil {
		log.Warn().Err(err).Msg("search: catégorie colis indisponible")
		return nil
	}

	var out []Result
	for _, c := range rows {
		if !contient(q, c.Code, c.Adresse, c.Ville, c.Telephone) {
			continue
		}
		out = append(out, Result{
			ID:        c.ID.String(),
			Categorie: CategorieColis,
			Titre:     c.Code,
			SousTitre: c.Adresse + ", " + c.Ville,
			URL:       "/colis/" + c.ID.String(),
		})
		if len(out) == maxParCategorie {
			break
		}
	}
	return out
}

func (s *Service) chercherClients(ctx context.Context, q string) []Result {
	rows, err := s.clients.Recentes(ctx, fenetreRecente)
	if err != nil {
		log.Warn().Err(err).Msg("search: catégorie clients indisponible")
		return nil
	}

	var out []Result
	for _, c := range rows {
		if !contient(q, c.Prenom, c.Nom, c.Telephone, c.Ville) {
			continue
		}
		out = append(out, Result{
			ID:        c.ID.String(),
			Categorie: CategorieClient,
			Titre:     c.Prenom + " " + c.Nom,
			SousTitre: c.Telephone,
			URL:       "/clients/" + c.ID.String(),
		})
		if len(out) == maxParCategorie {
			break
		}
	}
	return out
}

func (s *Service) chercherLivreurs(ctx context.Context, q string) []Result {
	rows, err := s.livreurs.Recentes(ctx, fenetreRecente)
	if err != nil {
		log.Warn().Err(err).Msg("search: catégorie livreurs indisponible")
		return nil
	}

	var out []Result
	for _, l := range rows {
		if !contient(q, l.Prenom, l.Nom, l.Telephone, l.Zone) {
			continue
		}
		out = append(out, Result{
			ID:        l.ID.String(),
			Categorie: CategorieLivreur,
			Titre:     l.Prenom + " " + l.Nom,
			SousTitre: l.Zone,
			URL:       "/livreurs/" + l.ID.String(),
		})
		if len(out) == maxParCategorie {
			break
		}
	}
	return out
}

func (s *Service) chercherEntreprises(ctx context.Context, q string) []Result {
	rows, err := s.entreprises.Recentes(ctx, fenetreRecente)
	if err != nil {
		log.Warn().Err(err).Msg("search: catégorie entreprises indisponible")
		return nil
	}

	var out []Result
	for _, e := range rows {
		if !contient(q, e.Nom, e.Telephone, e.Ville) {
			continue
		}
		out = append(out, Result{
			ID:        e.ID.String(),
			Categorie: CategorieEntreprise,
			Titre:     e.Nom,
			SousTitre: e.Ville,
			URL:       "/entreprises/" + e.ID.String(),
		})
		if len(out) == maxParCategorie {
			break
		}
	}
	return out
}
