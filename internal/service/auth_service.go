package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/logitrack/api/internal/auth"
	"github.com/logitrack/api/internal/repo"
)

var (
	// ErrIdentifiantsInvalides indique un échec d'authentification.
	ErrIdentifiantsInvalides = errors.New("identifiants invalides")
	// ErrCompteDesactive indique un compte inactif.
	ErrCompteDesactive = errors.New("compte désactivé")
	// ErrRefreshInvalide indique un refresh token invalide ou expiré.
	ErrRefreshInvalide = errors.New("refresh token invalide")
)

type authRepository interface {
	GetUtilisateurByEmail(ctx context.Context, email string) (repo.Utilisateur, error)
	GetUtilisateurByID(ctx context.Context, id uuid.UUID) (repo.Utilisateur, error)
	InsertSession(ctx context.Context, arg repo.InsertSessionParams) (repo.SessionRefresh, error)
	GetSessionByHash(ctx context.Context, tokenHash string) (repo.SessionRefresh, error)
	RevokeSession(ctx context.Context, tokenHash string) error
	RevokeOtherSessions(ctx context.Context, sujet uuid.UUID, keepHash string) error
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentre les règles d'authentification et de session.
type AuthService struct {
	repo       authRepository
	redis      redisCommander
	jwt        *auth.JWTManager
	sessionTTL time.Duration
}

// NewAuthService crée un nouveau service.
func NewAuthService(r authRepository, redisClient redisCommander, jwtMgr *auth.JWTManager, sessionTTL time.Duration) *AuthService {
	return &AuthService{repo: r, redis: redisClient, jwt: jwtMgr, sessionTTL: sessionTTL}
}

// JWT expose le gestionnaire de JWT (utile aux middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// LoginResult représente le retour standard d'une authentification.
type LoginResult struct {
	AccessToken   string          `json:"access_token"`
	RefreshToken  string          `json:"refresh_token"`
	ExpireLe      time.Time       `json:"expire_le"`
	Principal     PrincipalProfil `json:"principal"`
	refreshExpiry time.Time
}

// PrincipalProfil décrit l'acteur authentifié renvoyé au client.
type PrincipalProfil struct {
	ID     string `json:"id"`
	Prenom string `json:"prenom"`
	Nom    string `json:"nom"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Actif  bool   `json:"actif"`
}

// Login authentifie par e-mail et mot de passe.
//
// Les trois cas d'échec (compte inexistant, mot de passe erroné, compte
// inactif) sont journalisés distinctement mais la couche HTTP les expose
// avec le même message générique.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUtilisateurByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn().Msg("login: utilisateur introuvable")
			return nil, ErrIdentifiantsInvalides
		}
		return nil, err
	}

	ok, err := auth.Verify(password, user.MotDePasseHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: vérification du mot de passe impossible")
		return nil, ErrIdentifiantsInvalides
	}
	if !ok {
		log.Warn().Msg("login: mot de passe invalide")
		return nil, ErrIdentifiantsInvalides
	}

	if !user.Actif {
		return nil, ErrCompteDesactive
	}

	role, err := auth.ValidateRole(user.Role)
	if err != nil {
		log.Error().Str("role", user.Role).Msg("login: rôle inconnu en base")
		return nil, err
	}

	return s.issueTokens(ctx, user, role)
}

func (s *AuthService) issueTokens(ctx context.Context, user repo.Utilisateur, role string) (*LoginResult, error) {
	access, _, err := s.jwt.GenerateAccessToken(user.ID.String(), role)
	if err != nil {
		return nil, err
	}

	rawRefresh, hashed, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiry := now.Add(s.sessionTTL)

	if _, err := s.repo.InsertSession(ctx, repo.InsertSessionParams{
		ID:         uuid.New(),
		Sujet:      user.ID,
		TokenHash:  hashed,
		Expiration: expiry,
		CreeLe:     now,
	}); err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, auth.RefreshRedisKey(hashed), user.ID.String(), s.sessionTTL).Err(); err != nil {
			// Le miroir Redis n'est qu'un raccourci : Postgres reste la source de vérité.
			log.Warn().Err(err).Msg("login: miroir redis indisponible")
		}
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: rawRefresh,
		ExpireLe:     expiry,
		Principal: PrincipalProfil{
			ID:     user.ID.String(),
			Prenom: user.Prenom,
			Nom:    user.Nom,
			Email:  user.Email,
			Role:   role,
			Actif:  user.Actif,
		},
		refreshExpiry: expiry,
	}, nil
}

// Refresh échange un refresh token valide contre une nouvelle paire de tokens.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*LoginResult, error) {
	hashed := auth.HashRefreshToken(rawRefresh)

	session, err := s.repo.GetSessionByHash(ctx, hashed)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalide
		}
		return nil, err
	}

	if session.Revoquee || time.Now().UTC().After(session.Expiration) {
		return nil, ErrRefreshInvalide
	}

	user, err := s.repo.GetUtilisateurByID(ctx, session.Sujet)
	if err != nil {
		return nil, ErrRefreshInvalide
	}
	if !user.Actif {
		return nil, ErrCompteDesactive
	}

	role, err := auth.ValidateRole(user.Role)
	if err != nil {
		return nil, err
	}

	result, err := s.issueTokens(ctx, user, role)
	if err != nil {
		return nil, err
	}

	// Rotation : l'ancien token est révoqué, une seule session survit.
	if err := s.repo.RevokeSession(ctx, hashed); err != nil {
		log.Warn().Err(err).Msg("refresh: révocation de l'ancienne session impossible")
	}
	if s.redis != nil {
		if err := s.redis.Del(ctx, auth.RefreshRedisKey(hashed)).Err(); err != nil {
			log.Warn().Err(err).Msg("refresh: nettoyage redis impossible")
		}
	}

	return result, nil
}

// Logout révoque la session côté serveur. Idempotent.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}

	hashed := auth.HashRefreshToken(rawRefresh)
	if err := s.repo.RevokeSession(ctx, hashed); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Del(ctx, auth.RefreshRedisKey(hashed)).Err(); err != nil {
			log.Warn().Err(err).Msg("logout: nettoyage redis impossible")
		}
	}
	return nil
}

// Profil renvoie le principal courant depuis son identifiant.
func (s *AuthService) Profil(ctx context.Context, id uuid.UUID) (*PrincipalProfil, error) {
	user, err := s.repo.GetUtilisateurByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PrincipalProfil{
		ID:     user.ID.String(),
		Prenom: user.Prenom,
		Nom:    user.Nom,
		Email:  user.Email,
		Role:   auth.NormalizeRole(user.Role),
		Actif:  user.Actif,
	}, nil
}
