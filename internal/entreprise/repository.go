package entreprise

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository fournit l'accès à la table entreprises.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crée une instance du dépôt.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, nom, telephone, email, ville, adresse, actif, cree_le, mis_a_jour_le`

func scanEntreprise(row pgx.Row) (Entreprise, error) {
	var e Entreprise
	err := row.Scan(&e.ID, &e.Nom, &e.Telephone, &e.Email, &e.Ville, &e.Adresse, &e.Actif, &e.CreeLe, &e.MisAJourLe)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entreprise{}, ErrNotFound
		}
		return Entreprise{}, err
	}
	return e, nil
}

// List renvoie les entreprises, plus récentes d'abord.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Entreprise, error) {
	const query = `
        SELECT ` + columns + `
        FROM entreprises
        ORDER BY cree_le DESC
        LIMIT $1 OFFSET $2
    `

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Entreprise
	for rows.Next() {
		e, err := scanEntreprise(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}

	return list, rows.Err()
}

// Recentes renvoie les entreprises les plus récentes pour la recherche fédérée.
func (r *Repository) Recentes(ctx context.Context, limit int) ([]Entreprise, error) {
	return r.List(ctx, limit, 0)
}

// GetByID récupère une entreprise par identifiant.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Entreprise, error) {
	const query = `
        SELECT ` + columns + `
        FROM entreprises
        WHERE id = $1
    `

	return scanEntreprise(r.pool.QueryRow(ctx, query, id))
}

// Create insère une nouvelle entreprise.
func (r *Repository) Create(ctx context.Context, input CreateInput) (Entreprise, error) {
	const query = `
        INSERT INTO entreprises (id, nom, telephone, email, ville, adresse, actif)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + columns + `
    `

	row := r.pool.QueryRow(ctx, query,
		uuid.New(),
		strings.TrimSpace(input.Nom),
		strings.TrimSpace(input.Telephone),
		input.Email,
		strings.TrimSpace(input.Ville),
		strings.TrimSpace(input.Adresse),
		input.Actif,
	)
	return scanEntreprise(row)
}

// Update modifie une entreprise.
func (r *Repository) Update(ctx context.Context, input UpdateInput) (Entreprise, error) {
	const query = `
        UPDATE entreprises
        SET nom = $2,
            telephone = $3,
            email = $4,
            ville = $5,
            adresse = $6,
            actif = $7,
            mis_a_jour_le = now()
        WHERE id = $1
        RETURNING ` + columns + `
    `

	row := r.pool.QueryRow(ctx, query,
		input.ID,
		strings.TrimSpace(input.Nom),
		strings.TrimSpace(input.Telephone),
		input.Email,
		strings.TrimSpace(input.Ville),
		strings.TrimSpace(input.Adresse),
		input.Actif,
	)
	return scanEntreprise(row)
}

// Delete supprime une entreprise.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entreprises WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
