package client

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository fournit l'accès à la table clients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crée une instance du dépôt.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, prenom, nom, telephone, ville, adresse, entreprise_id, cree_le, mis_a_jour_le`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Prenom, &c.Nom, &c.Telephone, &c.Ville, &c.Adresse, &c.EntrepriseID, &c.CreeLe, &c.MisAJourLe)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return c, nil
}

// List renvoie les clients, plus récents d'abord.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Client, error) {
	const query = `
        SELECT ` + columns + `
        FROM clients
        ORDER BY cree_le DESC
        LIMIT $1 OFFSET $2
    `

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}

	return list, rows.Err()
}

// Recentes renvoie les clients les plus récents pour la recherche fédérée.
func (r *Repository) Recentes(ctx context.Context, limit int) ([]Client, error) {
	return r.List(ctx, limit, 0)
}

// GetByID récupère un client par identifiant.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Client, error) {
	const query = `
        SELECT ` + columns + `
        FROM clients
        WHERE id = $1
    `

	return scanClient(r.pool.QueryRow(ctx, query, id))
}

// Create insère un nouveau client.
func (r *Repository) Create(ctx context.Context, input CreateInput) (Client, error) {
	const query = `
        INSERT INTO clients (id, prenom, nom, telephone, ville, adresse, entreprise_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + columns + `
    `

	row := r.pool.QueryRow(ctx, query,
		uuid.New(),
		strings.TrimSpace(input.Prenom),
		strings.TrimSpace(input.Nom),
		strings.TrimSpace(input.Telephone),
		strings.TrimSpace(input.Ville),
		strings.TrimSpace(input.Adresse),
		input.EntrepriseID,
	)
	return scanClient(row)
}

// Update modifie un client.
func (r *Repository) Update(ctx context.Context, input UpdateInput) (Client, error) {
	const query = `
        UPDATE clients
        SET prenom = $2,
            nom = $3,
            telephone = $4,
            ville = $5,
            adresse = $6,
            entreprise_id = $7,
            mis_a_jour_le = now()
        WHERE id = $1
        RETURNING ` + columns + `
    `

	row := r.pool.QueryRow(ctx, query,
		input.ID,
		strings.TrimSpace(input.Prenom),
		strings.TrimSpace(input.Nom),
		strings.TrimSpace(input.Telephone),
		strings.TrimSpace(input.Ville),
		strings.TrimSpace(input.Adresse),
		input.EntrepriseID,
	)
	return scanClient(row)
}

// Delete supprime un client.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
