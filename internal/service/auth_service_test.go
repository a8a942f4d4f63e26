package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/logitrack/api/internal/auth"
	"github.com/logitrack/api/internal/repo"
)

type stubAuthRepo struct {
	user         repo.Utilisateur
	sessions     map[string]repo.SessionRefresh
	insertCalls  int
	revokedHashs []string
}

func (s *stubAuthRepo) GetUtilisateurByEmail(ctx context.Context, email string) (repo.Utilisateur, error) {
	if strings.EqualFold(email, s.user.Email) {
		return s.user, nil
	}
	return repo.Utilisateur{}, repo.ErrNotFound
}

func (s *stubAuthRepo) GetUtilisateurByID(ctx context.Context, id uuid.UUID) (repo.Utilisateur, error) {
	if id == s.user.ID {
		return s.user, nil
	}
	return repo.Utilisateur{}, repo.ErrNotFound
}

func (s *stubAuthRepo) InsertSession(ctx context.Context, arg repo.InsertSessionParams) (repo.SessionRefresh, error) {
	s.insertCalls++
	session := repo.SessionRefresh{
		ID:         arg.ID,
		Sujet:      arg.Sujet,
		TokenHash:  arg.TokenHash,
		Expiration: arg.Expiration,
		CreeLe:     arg.CreeLe,
	}
	if s.sessions == nil {
		s.sessions = make(map[string]repo.SessionRefresh)
	}
	s.sessions[arg.TokenHash] = session
	return session, nil
}

func (s *stubAuthRepo) GetSessionByHash(ctx context.Context, tokenHash string) (repo.SessionRefresh, error) {
	if session, ok := s.sessions[tokenHash]; ok {
		return session, nil
	}
	return repo.SessionRefresh{}, repo.ErrNotFound
}

func (s *stubAuthRepo) RevokeSession(ctx context.Context, tokenHash string) error {
	s.revokedHashs = append(s.revokedHashs, tokenHash)
	if session, ok := s.sessions[tokenHash]; ok {
		session.Revoquee = true
		s.sessions[tokenHash] = session
	}
	return nil
}

func (s *stubAuthRepo) RevokeOtherSessions(ctx context.Context, sujet uuid.UUID, keepHash string) error {
	return nil
}

type stubRedis struct {
	store map[string]string
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if s.store == nil {
		s.store = make(map[string]string)
	}
	s.store[key] = fmt.Sprint(value)
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	val, ok := s.store[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := s.store[key]; ok {
			delete(s.store, key)
			removed++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(removed)
	return cmd
}

func newTestService(t *testing.T, user repo.Utilisateur) (*AuthService, *stubAuthRepo, *stubRedis) {
	t.Helper()
	repoStub := &stubAuthRepo{user: user}
	redisStub := &stubRedis{}
	jwtMgr := auth.NewJWTManager(strings.Repeat("a", 32), time.Minute)
	return NewAuthService(repoStub, redisStub, jwtMgr, 24*time.Hour), repoStub, redisStub
}

func utilisateurActif(t *testing.T, role, password string) repo.Utilisateur {
	t.Helper()
	hash, err := auth.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return repo.Utilisateur{
		ID:             uuid.New(),
		Prenom:         "Nadia",
		Nom:            "Benali",
		Email:          "nadia@logitrack.app",
		MotDePasseHash: hash,
		Role:           role,
		Actif:          true,
	}
}

func TestLoginNormalizesRoleAndOpensSession(t *testing.T) {
	svc, repoStub, redisStub := newTestService(t, utilisateurActif(t, "LIVREUR", "MotDePasse123!"))

	result, err := svc.Login(context.Background(), "nadia@logitrack.app", "MotDePasse123!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if result.Principal.Role != auth.RoleLivreur {
		t.Fatalf("rôle = %q, attendu %q", result.Principal.Role, auth.RoleLivreur)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("tokens manquants")
	}
	if repoStub.insertCalls != 1 {
		t.Fatalf("insertions de session = %d", repoStub.insertCalls)
	}
	if len(redisStub.store) != 1 {
		t.Fatalf("le miroir redis devrait contenir une entrée, en contient %d", len(redisStub.store))
	}
}

func TestLoginFailuresAreIndistinct(t *testing.T) {
	svc, _, _ := newTestService(t, utilisateurActif(t, auth.RoleAdmin, "MotDePasse123!"))

	if _, err := svc.Login(context.Background(), "inconnu@logitrack.app", "MotDePasse123!"); !errors.Is(err, ErrIdentifiantsInvalides) {
		t.Fatalf("email inconnu: attendu ErrIdentifiantsInvalides, obtenu %v", err)
	}
	if _, err := svc.Login(context.Background(), "nadia@logitrack.app", "mauvais"); !errors.Is(err, ErrIdentifiantsInvalides) {
		t.Fatalf("mauvais mot de passe: attendu ErrIdentifiantsInvalides, obtenu %v", err)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	user := utilisateurActif(t, auth.RoleAdmin, "MotDePasse123!")
	user.Actif = false
	svc, _, _ := newTestService(t, user)

	if _, err := svc.Login(context.Background(), "nadia@logitrack.app", "MotDePasse123!"); !errors.Is(err, ErrCompteDesactive) {
		t.Fatalf("attendu ErrCompteDesactive, obtenu %v", err)
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newTestService(t, utilisateurActif(t, "Superviseur", "MotDePasse123!"))

	if _, err := svc.Login(context.Background(), "nadia@logitrack.app", "MotDePasse123!"); !errors.Is(err, auth.ErrRoleInconnu) {
		t.Fatalf("attendu ErrRoleInconnu, obtenu %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, repoStub, _ := newTestService(t, utilisateurActif(t, auth.RoleGestionnaire, "MotDePasse123!"))

	login, err := svc.Login(context.Background(), "nadia@logitrack.app", "MotDePasse123!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("le refresh token devrait être rotaté")
	}

	oldHash := auth.HashRefreshToken(login.RefreshToken)
	if len(repoStub.revokedHashs) != 1 || repoStub.revokedHashs[0] != oldHash {
		t.Fatalf("l'ancienne session devrait être révoquée, révocations: %v", repoStub.revokedHashs)
	}

	// L'ancien token ne doit plus être accepté.
	if _, err := svc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrRefreshInvalide) {
		t.Fatalf("rejouer l'ancien refresh: attendu ErrRefreshInvalide, obtenu %v", err)
	}
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	user := utilisateurActif(t, auth.RoleAdmin, "MotDePasse123!")
	repoStub := &stubAuthRepo{user: user}
	jwtMgr := auth.NewJWTManager(strings.Repeat("a", 32), time.Minute)
	// TTL négatif : la session insérée est déjà expirée.
	svc := NewAuthService(repoStub, &stubRedis{}, jwtMgr, -time.Hour)

	login, err := svc.Login(context.Background(), "nadia@logitrack.app", "MotDePasse123!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrRefreshInvalide) {
		t.Fatalf("attendu ErrRefreshInvalide, obtenu %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t, utilisateurActif(t, auth.RoleAdmin, "MotDePasse123!"))

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("logout sans token: %v", err)
	}
	if err := svc.Logout(context.Background(), "token-inconnu"); err != nil {
		t.Fatalf("logout token inconnu: %v", err)
	}
}
