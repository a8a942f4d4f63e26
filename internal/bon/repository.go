package bon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logitrack/api/internal/db"
	"github.com/logitrack/api/internal/util"
)

// Repository fournit l'accès aux tables bons et bon_colis.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crée une instance du dépôt.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, code, type, statut, livreur_id, entreprise_id, montant_centimes, cree_le, valide_le, cloture_le`

func scanBon(row pgx.Row) (Bon, error) {
	var b Bon
	err := row.Scan(&b.ID, &b.Code, &b.Type, &b.Statut, &b.LivreurID, &b.EntrepriseID, &b.MontantCentimes, &b.CreeLe, &b.ValideLe, &b.ClotureLe)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bon{}, ErrNotFound
		}
		return Bon{}, err
	}
	return b, nil
}

// List renvoie les bons d'un type donné (ou tous), plus récents d'abord.
func (r *Repository) List(ctx context.Context, typ string, limit, offset int) ([]Bon, error) {
	query := `
        SELECT ` + columns + `
        FROM bons
    `
	var args []any
	if typ != "" {
		query += " WHERE type = $1 ORDER BY cree_le DESC LIMIT $2 OFFSET $3"
		args = []any{strings.ToLower(typ), limit, offset}
	} else {
		query += " ORDER BY cree_le DESC LIMIT $1 OFFSET $2"
		args = []any{limit, offset}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Bon
	for rows.Next() {
		b, err := scanBon(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}

	return list, rows.Err()
}

// GetByID récupère un bon et ses colis attachés.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Bon, error) {
	const query = `
        SELECT ` + columns + `
        FROM bons
        WHERE id = $1
    `

	b, err := scanBon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return Bon{}, err
	}

	b.ColisIDs, err = r.colisIDs(ctx, id)
	if err != nil {
		return Bon{}, err
	}
	return b, nil
}

func (r *Repository) colisIDs(ctx context.Context, bonID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT colis_id FROM bon_colis WHERE bon_id = $1`, bonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateParams encapsule les champs d'un nouveau bon.
type CreateParams struct {
	Type            string
	LivreurID       *uuid.UUID
	EntrepriseID    *uuid.UUID
	MontantCentimes *int64
	ColisIDs        []uuid.UUID
}

// Create insère un bon brouillon et ses rattachements colis dans une transaction.
func (r *Repository) Create(ctx context.Context, params CreateParams) (Bon, error) {
	var created Bon

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		const insert = `
            INSERT INTO bons (id, code, type, statut, livreur_id, entreprise_id, montant_centimes)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING ` + columns + `
        `

		var err error
		created, err = scanBon(tx.QueryRow(ctx, insert,
			uuid.New(),
			util.GenererCode(codePrefix(params.Type)),
			params.Type,
			StatutBrouillon,
			params.LivreurID,
			params.EntrepriseID,
			params.MontantCentimes,
		))
		if err != nil {
			return err
		}

		for _, colisID := range params.ColisIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO bon_colis (bon_id, colis_id) VALUES ($1, $2)`,
				created.ID, colisID); err != nil {
				return err
			}
		}

		created.ColisIDs = params.ColisIDs
		return nil
	})
	if err != nil {
		return Bon{}, err
	}
	return created, nil
}

// UpdateStatut change le statut d'un bon, en horodatant validation et clôture.
func (r *Repository) UpdateStatut(ctx context.Context, id uuid.UUID, de, vers string) (Bon, error) {
	const query = `
        UPDATE bons
        SET statut = $2,
            valide_le = CASE WHEN $2 = 'valide' THEN $4 ELSE valide_le END,
            cloture_le = CASE WHEN $2 = 'cloture' THEN $4 ELSE cloture_le END
        WHERE id = $1 AND statut = $3
        RETURNING ` + columns + `
    `

	b, err := scanBon(r.pool.QueryRow(ctx, query, id, vers, de, time.Now().UTC()))
	if err != nil {
		return Bon{}, err
	}

	b.ColisIDs, err = r.colisIDs(ctx, id)
	if err != nil {
		return Bon{}, err
	}
	return b, nil
}

// Delete supprime un bon encore en brouillon.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM bon_colis WHERE bon_id = $1`, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM bons WHERE id = $1 AND statut = $2`, id, StatutBrouillon)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
