package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/logitrack/api/internal/auth"
)

func requestWithRole(method, path, role string) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	ctx := context.WithValue(r.Context(), ContextKeyRole, role)
	return r.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAccessAllowsDeclaredRole(t *testing.T) {
	rec := httptest.NewRecorder()
	Access(okHandler()).ServeHTTP(rec, requestWithRole(http.MethodGet, "/clients", auth.RoleGestionnaire))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, attendu 200", rec.Code)
	}
}

func TestAccessDeniesLivreurOnClients(t *testing.T) {
	rec := httptest.NewRecorder()
	Access(okHandler()).ServeHTTP(rec, requestWithRole(http.MethodGet, "/clients", auth.RoleLivreur))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, attendu 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FORBIDDEN") {
		t.Fatalf("corps inattendu: %s", rec.Body.String())
	}
}

func TestAccessDeniesUndeclaredPath(t *testing.T) {
	rec := httptest.NewRecorder()
	Access(okHandler()).ServeHTTP(rec, requestWithRole(http.MethodGet, "/interne/debug", auth.RoleAdmin))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, attendu 403", rec.Code)
	}
}

func TestAccessMatchesSubPaths(t *testing.T) {
	rec := httptest.NewRecorder()
	Access(okHandler()).ServeHTTP(rec, requestWithRole(http.MethodPost, "/colis/0b7f0a54-0000-0000-0000-000000000000/statut", auth.RoleLivreur))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, attendu 200", rec.Code)
	}
}

func TestAccessLongestPrefixWins(t *testing.T) {
	// /notifications est ouvert à tous, /notifications/diffusion est gestion.
	rec := httptest.NewRecorder()
	Access(okHandler()).ServeHTTP(rec, requestWithRole(http.MethodPost, "/notifications/diffusion", auth.RoleLivreur))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("diffusion livreur: status = %d, attendu 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	Access(okHandler()).ServeHTTP(rec, requestWithRole(http.MethodGet, "/notifications", auth.RoleLivreur))
	if rec.Code != http.StatusOK {
		t.Fatalf("inbox livreur: status = %d, attendu 200", rec.Code)
	}
}

func TestUtilisateursReservesAuxAdmins(t *testing.T) {
	rec := httptest.NewRecorder()
	Access(okHandler()).ServeHTTP(rec, requestWithRole(http.MethodGet, "/utilisateurs", auth.RoleGestionnaire))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("gestionnaire: status = %d, attendu 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	Access(okHandler()).ServeHTTP(rec, requestWithRole(http.MethodGet, "/utilisateurs", auth.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, attendu 200", rec.Code)
	}
}

func TestAuthMiddlewareInjectsClaims(t *testing.T) {
	jwtMgr := auth.NewJWTManager(strings.Repeat("a", 32), time.Minute)
	signed, _, err := jwtMgr.GenerateAccessToken("1f6b2a00-0000-0000-0000-000000000000", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("génération: %v", err)
	}

	var gotSubject, gotRole string
	handler := Auth(jwtMgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = GetSubject(r.Context())
		gotRole = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotSubject != "1f6b2a00-0000-0000-0000-000000000000" {
		t.Fatalf("subject = %q", gotSubject)
	}
	if gotRole != auth.RoleAdmin {
		t.Fatalf("role = %q", gotRole)
	}
}

func TestAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	jwtMgr := auth.NewJWTManager(strings.Repeat("a", 32), time.Minute)
	handler := Auth(jwtMgr)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("sans token: status = %d, attendu 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer pas-un-jwt")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("token invalide: status = %d, attendu 401", rec.Code)
	}
}

func TestReglesExposeesTriees(t *testing.T) {
	regles := Regles()
	if len(regles) == 0 {
		t.Fatal("la table de règles ne doit pas être vide")
	}
	for i := 1; i < len(regles); i++ {
		if regles[i-1].Prefixe > regles[i].Prefixe {
			t.Fatalf("table non triée: %q avant %q", regles[i-1].Prefixe, regles[i].Prefixe)
		}
	}
}
