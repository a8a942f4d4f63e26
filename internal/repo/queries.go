package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries regroupe l'accès aux tables utilisateurs et sessions.
type Queries struct {
	pool *pgxpool.Pool
}

// New crée une instance de Queries.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

const utilisateurColumns = `id, prenom, nom, email, mot_de_passe_hash, role, actif, cree_le, mis_a_jour_le`

func scanUtilisateur(row pgx.Row) (Utilisateur, error) {
	var u Utilisateur
	err := row.Scan(&u.ID, &u.Prenom, &u.Nom, &u.Email, &u.MotDePasseHash, &u.Role, &u.Actif, &u.CreeLe, &u.MisAJourLe)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Utilisateur{}, ErrNotFound
		}
		return Utilisateur{}, err
	}
	return u, nil
}

// GetUtilisateurByEmail récupère un utilisateur par e-mail normalisé.
func (q *Queries) GetUtilisateurByEmail(ctx context.Context, email string) (Utilisateur, error) {
	const query = `
        SELECT ` + utilisateurColumns + `
        FROM utilisateurs
        WHERE email = $1
    `

	normalized := strings.ToLower(strings.TrimSpace(email))
	return scanUtilisateur(q.pool.QueryRow(ctx, query, normalized))
}

// GetUtilisateurByID récupère un utilisateur par identifiant.
func (q *Queries) GetUtilisateurByID(ctx context.Context, id uuid.UUID) (Utilisateur, error) {
	const query = `
        SELECT ` + utilisateurColumns + `
        FROM utilisateurs
        WHERE id = $1
    `

	return scanUtilisateur(q.pool.QueryRow(ctx, query, id))
}

// ListUtilisateurs renvoie tous les comptes, plus récents d'abord.
func (q *Queries) ListUtilisateurs(ctx context.Context) ([]Utilisateur, error) {
	const query = `
        SELECT ` + utilisateurColumns + `
        FROM utilisateurs
        ORDER BY cree_le DESC
    `

	rows, err := q.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []Utilisateur
	for rows.Next() {
		u, err := scanUtilisateur(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// ListUtilisateursActifsByRole renvoie les comptes actifs d'un rôle donné.
func (q *Queries) ListUtilisateursActifsByRole(ctx context.Context, role string) ([]Utilisateur, error) {
	const query = `
        SELECT ` + utilisateurColumns + `
        FROM utilisateurs
        WHERE actif = TRUE AND lower(role) = lower($1)
        ORDER BY cree_le DESC
    `

	rows, err := q.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []Utilisateur
	for rows.Next() {
		u, err := scanUtilisateur(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// CreateUtilisateurParams encapsule les champs d'un nouveau compte.
type CreateUtilisateurParams struct {
	Prenom         string
	Nom            string
	Email          string
	MotDePasseHash string
	Role           string
	Actif          bool
}

// CreateUtilisateur insère un nouveau compte.
func (q *Queries) CreateUtilisateur(ctx context.Context, arg CreateUtilisateurParams) (Utilisateur, error) {
	const query = `
        INSERT INTO utilisateurs (id, prenom, nom, email, mot_de_passe_hash, role, actif)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + utilisateurColumns + `
    `

	row := q.pool.QueryRow(ctx, query,
		uuid.New(),
		strings.TrimSpace(arg.Prenom),
		strings.TrimSpace(arg.Nom),
		strings.ToLower(strings.TrimSpace(arg.Email)),
		arg.MotDePasseHash,
		arg.Role,
		arg.Actif,
	)

	return scanUtilisateur(row)
}

// UpdateUtilisateurParams encapsule les champs modifiables d'un compte.
type UpdateUtilisateurParams struct {
	ID     uuid.UUID
	Prenom string
	Nom    string
	Role   string
	Actif  bool
}

// UpdateUtilisateur modifie les données principales du compte.
func (q *Queries) UpdateUtilisateur(ctx context.Context, arg UpdateUtilisateurParams) (Utilisateur, error) {
	const query = `
        UPDATE utilisateurs
        SET prenom = $2,
            nom = $3,
            role = $4,
            actif = $5,
            mis_a_jour_le = now()
        WHERE id = $1
        RETURNING ` + utilisateurColumns + `
    `

	row := q.pool.QueryRow(ctx, query, arg.ID, strings.TrimSpace(arg.Prenom), strings.TrimSpace(arg.Nom), arg.Role, arg.Actif)
	return scanUtilisateur(row)
}

// UpdateMotDePasse remplace le hash du mot de passe.
func (q *Queries) UpdateMotDePasse(ctx context.Context, id uuid.UUID, hash string) error {
	const query = `
        UPDATE utilisateurs
        SET mot_de_passe_hash = $2,
            mis_a_jour_le = now()
        WHERE id = $1
    `

	tag, err := q.pool.Exec(ctx, query, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUtilisateur supprime un compte.
func (q *Queries) DeleteUtilisateur(ctx context.Context, id uuid.UUID) error {
	tag, err := q.pool.Exec(ctx, `DELETE FROM utilisateurs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertSession persiste une nouvelle session de refresh.
func (q *Queries) InsertSession(ctx context.Context, arg InsertSessionParams) (SessionRefresh, error) {
	const query = `
        INSERT INTO sessions (id, sujet, token_hash, expiration, cree_le)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, sujet, token_hash, expiration, cree_le, revoquee
    `

	var s SessionRefresh
	err := q.pool.QueryRow(ctx, query, arg.ID, arg.Sujet, arg.TokenHash, arg.Expiration, arg.CreeLe).
		Scan(&s.ID, &s.Sujet, &s.TokenHash, &s.Expiration, &s.CreeLe, &s.Revoquee)
	return s, err
}

// GetSessionByHash récupère une session par hash de token.
func (q *Queries) GetSessionByHash(ctx context.Context, tokenHash string) (SessionRefresh, error) {
	const query = `
        SELECT id, sujet, token_hash, expiration, cree_le, revoquee
        FROM sessions
        WHERE token_hash = $1
    `

	var s SessionRefresh
	err := q.pool.QueryRow(ctx, query, tokenHash).
		Scan(&s.ID, &s.Sujet, &s.TokenHash, &s.Expiration, &s.CreeLe, &s.Revoquee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionRefresh{}, ErrNotFound
		}
		return SessionRefresh{}, err
	}
	return s, nil
}

// RevokeSession marque une session comme révoquée.
func (q *Queries) RevokeSession(ctx context.Context, tokenHash string) error {
	_, err := q.pool.Exec(ctx, `UPDATE sessions SET revoquee = TRUE WHERE token_hash = $1`, tokenHash)
	return err
}

// RevokeOtherSessions révoque toutes les sessions du sujet sauf celle indiquée.
func (q *Queries) RevokeOtherSessions(ctx context.Context, sujet uuid.UUID, keepHash string) error {
	const query = `
        UPDATE sessions
        SET revoquee = TRUE
        WHERE sujet = $1 AND token_hash <> $2 AND revoquee = FALSE
    `

	_, err := q.pool.Exec(ctx, query, sujet, keepHash)
	return err
}

// PurgeSessions supprime les sessions expirées ou révoquées avant la date donnée.
func (q *Queries) PurgeSessions(ctx context.Context, before time.Time) (int64, error) {
	const query = `
        DELETE FROM sessions
        WHERE revoquee = TRUE OR expiration < $1
    `

	tag, err := q.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
