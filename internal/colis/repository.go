package colis

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logitrack/api/internal/db"
	"github.com/logitrack/api/internal/util"
)

// Repository fournit l'accès aux tables colis et historique_statuts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crée une instance du dépôt.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, code, client_id, entreprise_id, livreur_id, adresse, ville, telephone,
        prix_centimes, frais_centimes, statut, preuve_url, cree_le, mis_a_jour_le`

func scanColis(row pgx.Row) (Colis, error) {
	var c Colis
	err := row.Scan(&c.ID, &c.Code, &c.ClientID, &c.EntrepriseID, &c.LivreurID, &c.Adresse, &c.Ville,
		&c.Telephone, &c.PrixCentimes, &c.FraisCentimes, &c.Statut, &c.PreuveURL, &c.CreeLe, &c.MisAJourLe)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Colis{}, ErrNotFound
		}
		return Colis{}, err
	}
	return c, nil
}

// List renvoie les colis filtrés, plus récents d'abord.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Colis, error) {
	query := `
        SELECT ` + columns + `
        FROM colis
    `

	var (
		conds []string
		args  []any
	)

	if filter.Statut != "" {
		args = append(args, strings.ToLower(filter.Statut))
		conds = append(conds, "statut = $"+strconv.Itoa(len(args)))
	}
	if filter.LivreurID != nil {
		args = append(args, *filter.LivreurID)
		conds = append(conds, "livreur_id = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += " ORDER BY cree_le DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Colis
	for rows.Next() {
		c, err := scanColis(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}

	return list, rows.Err()
}

// Recentes renvoie les colis les plus récents pour la recherche fédérée.
func (r *Repository) Recentes(ctx context.Context, limit int) ([]Colis, error) {
	return r.List(ctx, Filter{Limit: limit})
}

// GetByID récupère un colis par identifiant.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Colis, error) {
	const query = `
        SELECT ` + columns + `
        FROM colis
        WHERE id = $1
    `

	return scanColis(r.pool.QueryRow(ctx, query, id))
}

// GetByCode récupère un colis par code de suivi.
func (r *Repository) GetByCode(ctx context.Context, code string) (Colis, error) {
	const query = `
        SELECT ` + columns + `
        FROM colis
        WHERE code = $1
    `

	return scanColis(r.pool.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))))
}

// Create insère un nouveau colis en attente.
func (r *Repository) Create(ctx context.Context, input CreateInput) (Colis, error) {
	const query = `
        INSERT INTO colis (id, code, client_id, entreprise_id, adresse, ville, telephone,
                           prix_centimes, frais_centimes, statut)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + columns + `
    `

	row := r.pool.QueryRow(ctx, query,
		uuid.New(),
		util.GenererCode("COL"),
		input.ClientID,
		input.EntrepriseID,
		strings.TrimSpace(input.Adresse),
		strings.TrimSpace(input.Ville),
		strings.TrimSpace(input.Telephone),
		input.PrixCentimes,
		input.FraisCentimes,
		StatutEnAttente,
	)
	return scanColis(row)
}

// Update modifie les champs hors statut.
func (r *Repository) Update(ctx context.Context, input UpdateInput) (Colis, error) {
	const query = `
        UPDATE colis
        SET adresse = $2,
            ville = $3,
            telephone = $4,
            prix_centimes = $5,
            frais_centimes = $6,
            mis_a_jour_le = now()
        WHERE id = $1
        RETURNING ` + columns + `
    `

	row := r.pool.QueryRow(ctx, query,
		input.ID,
		strings.TrimSpace(input.Adresse),
		strings.TrimSpace(input.Ville),
		strings.TrimSpace(input.Telephone),
		input.PrixCentimes,
		input.FraisCentimes,
	)
	return scanColis(row)
}

// UpdateStatut change le statut et trace l'historique dans la même transaction.
func (r *Repository) UpdateStatut(ctx context.Context, id uuid.UUID, de, vers string, parID uuid.UUID) (Colis, error) {
	var updated Colis

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		const update = `
            UPDATE colis
            SET statut = $2, mis_a_jour_le = now()
            WHERE id = $1 AND statut = $3
            RETURNING ` + columns + `
        `

		var err error
		updated, err = scanColis(tx.QueryRow(ctx, update, id, vers, de))
		if err != nil {
			return err
		}

		const history = `
            INSERT INTO historique_statuts (id, colis_id, de, vers, par_id, cree_le)
            VALUES ($1, $2, $3, $4, $5, $6)
        `

		_, err = tx.Exec(ctx, history, uuid.New(), id, de, vers, parID, time.Now().UTC())
		return err
	})
	if err != nil {
		return Colis{}, err
	}
	return updated, nil
}

// AssignerLivreur affecte ou retire un livreur.
func (r *Repository) AssignerLivreur(ctx context.Context, id uuid.UUID, livreurID *uuid.UUID) (Colis, error) {
	const query = `
        UPDATE colis
        SET livreur_id = $2, mis_a_jour_le = now()
        WHERE id = $1
        RETURNING ` + columns + `
    `

	return scanColis(r.pool.QueryRow(ctx, query, id, livreurID))
}

// SetPreuve enregistre l'URL de la preuve de livraison.
func (r *Repository) SetPreuve(ctx context.Context, id uuid.UUID, url string) (Colis, error) {
	const query = `
        UPDATE colis
        SET preuve_url = $2, mis_a_jour_le = now()
        WHERE id = $1
        RETURNING ` + columns + `
    `

	return scanColis(r.pool.QueryRow(ctx, query, id, url))
}

// Delete supprime un colis.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM colis WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Historique renvoie les changements de statut d'un colis, plus récents d'abord.
func (r *Repository) Historique(ctx context.Context, colisID uuid.UUID) ([]HistoriqueStatut, error) {
	const query = `
        SELECT id, colis_id, de, vers, par_id, cree_le
        FROM historique_statuts
        WHERE colis_id = $1
        ORDER BY cree_le DESC
    `

	rows, err := r.pool.Query(ctx, query, colisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []HistoriqueStatut
	for rows.Next() {
		var h HistoriqueStatut
		if err := rows.Scan(&h.ID, &h.ColisID, &h.De, &h.Vers, &h.ParID, &h.CreeLe); err != nil {
			return nil, err
		}
		list = append(list, h)
	}

	return list, rows.Err()
}

// CountParStatut agrège le nombre de colis par statut.
func (r *Repository) CountParStatut(ctx context.Context) (map[string]int, error) {
	const query = `
        SELECT statut, count(*)
        FROM colis
        GROUP BY statut
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var statut string
		var count int
		if err := rows.Scan(&statut, &count); err != nil {
			return nil, err
		}
		counts[statut] = count
	}

	return counts, rows.Err()
}
