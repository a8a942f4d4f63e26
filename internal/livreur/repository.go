package livreur

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository fournit l'accès à la table livreurs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crée une instance du dépôt.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, utilisateur_id, prenom, nom, telephone, vehicule, zone, actif, cree_le, mis_a_jour_le`

func scanLivreur(row pgx.Row) (Livreur, error) {
	var l Livreur
	err := row.Scan(&l.ID, &l.UtilisateurID, &l.Prenom, &l.Nom, &l.Telephone, &l.Vehicule, &l.Zone, &l.Actif, &l.CreeLe, &l.MisAJourLe)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Livreur{}, ErrNotFound
		}
		return Livreur{}, err
	}
	return l, nil
}

// List renvoie les livreurs, plus récents d'abord.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Livreur, error) {
	const query = `
        SELECT ` + columns + `
        FROM livreurs
        ORDER BY cree_le DESC
        LIMIT $1 OFFSET $2
    `

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Livreur
	for rows.Next() {
		l, err := scanLivreur(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}

	return list, rows.Err()
}

// Recentes renvoie les livreurs les plus récents pour la recherche fédérée.
func (r *Repository) Recentes(ctx context.Context, limit int) ([]Livreur, error) {
	return r.List(ctx, limit, 0)
}

// GetByID récupère un livreur par identifiant.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Livreur, error) {
	const query = `
        SELECT ` + columns + `
        FROM livreurs
        WHERE id = $1
    `

	return scanLivreur(r.pool.QueryRow(ctx, query, id))
}

// GetByUtilisateur récupère le profil livreur attaché à un compte.
func (r *Repository) GetByUtilisateur(ctx context.Context, utilisateurID uuid.UUID) (Livreur, error) {
	const query = `
        SELECT ` + columns + `
        FROM livreurs
        WHERE utilisateur_id = $1
    `

	return scanLivreur(r.pool.QueryRow(ctx, query, utilisateurID))
}

// Create insère un nouveau livreur.
func (r *Repository) Create(ctx context.Context, input CreateInput) (Livreur, error) {
	const query = `
        INSERT INTO livreurs (id, utilisateur_id, prenom, nom, telephone, vehicule, zone, actif)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + columns + `
    `

	row := r.pool.QueryRow(ctx, query,
		uuid.New(),
		input.UtilisateurID,
		strings.TrimSpace(input.Prenom),
		strings.TrimSpace(input.Nom),
		strings.TrimSpace(input.Telephone),
		strings.TrimSpace(input.Vehicule),
		strings.TrimSpace(input.Zone),
		input.Actif,
	)
	return scanLivreur(row)
}

// Update modifie un livreur.
func (r *Repository) Update(ctx context.Context, input UpdateInput) (Livreur, error) {
	const query = `
        UPDATE livreurs
        SET utilisateur_id = $2,
            prenom = $3,
            nom = $4,
            telephone = $5,
            vehicule = $6,
            zone = $7,
            actif = $8,
            mis_a_jour_le = now()
        WHERE id = $1
        RETURNING ` + columns + `
    `

	row := r.pool.QueryRow(ctx, query,
		input.ID,
		input.UtilisateurID,
		strings.TrimSpace(input.Prenom),
		strings.TrimSpace(input.Nom),
		strings.TrimSpace(input.Telephone),
		strings.TrimSpace(input.Vehicule),
		strings.TrimSpace(input.Zone),
		input.Actif,
	)
	return scanLivreur(row)
}

// Delete supprime un livreur.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM livreurs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
