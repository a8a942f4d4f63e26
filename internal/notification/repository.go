package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository fournit l'accès à la table notifications.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crée une instance du dépôt.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, utilisateur_id, titre, message, type, lien, lue, lue_le, cree_le`

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UtilisateurID, &n.Titre, &n.Message, &n.Type, &n.Lien, &n.Lue, &n.LueLe, &n.CreeLe)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, err
	}
	return n, nil
}

// ListByUtilisateur renvoie les notifications d'un utilisateur, plus récentes d'abord.
func (r *Repository) ListByUtilisateur(ctx context.Context, utilisateurID uuid.UUID, limit int) ([]Notification, error) {
	const query = `
        SELECT ` + columns + `
        FROM notifications
        WHERE utilisateur_id = $1
        ORDER BY cree_le DESC
        LIMIT $2
    `

	rows, err := r.pool.Query(ctx, query, utilisateurID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}

	return list, rows.Err()
}

// CountNonLues compte les notifications non lues d'un utilisateur.
func (r *Repository) CountNonLues(ctx context.Context, utilisateurID uuid.UUID) (int, error) {
	const query = `
        SELECT count(*)
        FROM notifications
        WHERE utilisateur_id = $1 AND lue = FALSE
    `

	var count int
	if err := r.pool.QueryRow(ctx, query, utilisateurID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Create insère une notification non lue.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Notification, error) {
	const query = `
        INSERT INTO notifications (id, utilisateur_id, titre, message, type, lien)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + columns + `
    `

	n, err := scanNotification(r.pool.QueryRow(ctx, query,
		uuid.New(), input.UtilisateurID, input.Titre, input.Message, input.Type, input.Lien))
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarquerLue persiste lue=true et horodate la lecture. Scopée au propriétaire.
// Remarquer une notification déjà lue écrase lue_le, comportement hérité
// de l'application d'origine.
func (r *Repository) MarquerLue(ctx context.Context, id, utilisateurID uuid.UUID, quand time.Time) (*Notification, error) {
	const query = `
        UPDATE notifications
        SET lue = TRUE, lue_le = $3
        WHERE id = $1 AND utilisateur_id = $2
        RETURNING ` + columns + `
    `

	n, err := scanNotification(r.pool.QueryRow(ctx, query, id, utilisateurID, quand))
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarquerToutesLues passe en lu toutes les non-lues du propriétaire.
func (r *Repository) MarquerToutesLues(ctx context.Context, utilisateurID uuid.UUID, quand time.Time) (int64, error) {
	const query = `
        UPDATE notifications
        SET lue = TRUE, lue_le = $2
        WHERE utilisateur_id = $1 AND lue = FALSE
    `

	tag, err := r.pool.Exec(ctx, query, utilisateurID, quand)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Supprimer efface une notification du propriétaire et indique si elle était non lue.
func (r *Repository) Supprimer(ctx context.Context, id, utilisateurID uuid.UUID) (etaitNonLue bool, err error) {
	const query = `
        DELETE FROM notifications
        WHERE id = $1 AND utilisateur_id = $2
        RETURNING NOT lue
    `

	err = r.pool.QueryRow(ctx, query, id, utilisateurID).Scan(&etaitNonLue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}
	return etaitNonLue, nil
}
