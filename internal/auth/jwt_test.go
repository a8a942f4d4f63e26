package auth

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	mgr := NewJWTManager(strings.Repeat("a", 32), time.Minute)

	signed, jti, err := mgr.GenerateAccessToken("sujet-1", RoleGestionnaire)
	if err != nil {
		t.Fatalf("génération: %v", err)
	}
	if jti == "" {
		t.Fatal("jti vide")
	}

	claims, err := mgr.ParseAndValidate(signed)
	if err != nil {
		t.Fatalf("validation: %v", err)
	}
	if claims.Subject != "sujet-1" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if claims.Role != RoleGestionnaire {
		t.Fatalf("role = %q", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	mgr := NewJWTManager(strings.Repeat("a", 32), time.Minute)
	autre := NewJWTManager(strings.Repeat("b", 32), time.Minute)

	signed, _, err := mgr.GenerateAccessToken("sujet-1", RoleAdmin)
	if err != nil {
		t.Fatalf("génération: %v", err)
	}

	if _, err := autre.ParseAndValidate(signed); err == nil {
		t.Fatal("un token signé avec un autre secret devrait être rejeté")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	mgr := NewJWTManager(strings.Repeat("c", 32), -time.Minute)

	signed, _, err := mgr.GenerateAccessToken("sujet-1", RoleAdmin)
	if err != nil {
		t.Fatalf("génération: %v", err)
	}

	if _, err := mgr.ParseAndValidate(signed); err == nil {
		t.Fatal("un token expiré devrait être rejeté")
	}
}
