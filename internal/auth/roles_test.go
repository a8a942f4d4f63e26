package auth

import (
	"errors"
	"testing"
)

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"LIVREUR", "Livreur"},
		{"livreur", "Livreur"},
		{"Admin", "Admin"},
		{"  gestionnaire  ", "Gestionnaire"},
		{"", ""},
	}

	for _, c := range cases {
		if got := NormalizeRole(c.in); got != c.want {
			t.Errorf("NormalizeRole(%q) = %q, attendu %q", c.in, got, c.want)
		}
	}
}

func TestValidateRoleRejectsUnknown(t *testing.T) {
	if _, err := ValidateRole("Superviseur"); !errors.Is(err, ErrRoleInconnu) {
		t.Fatalf("attendu ErrRoleInconnu, obtenu %v", err)
	}

	role, err := ValidateRole("ADMIN")
	if err != nil {
		t.Fatalf("validation inattendue en échec: %v", err)
	}
	if role != RoleAdmin {
		t.Fatalf("attendu %q, obtenu %q", RoleAdmin, role)
	}
}

func TestHasAccess(t *testing.T) {
	if !HasAccess("LIVREUR", RoleAdmin, RoleLivreur) {
		t.Fatal("le livreur devrait avoir accès")
	}
	if HasAccess("Livreur", RoleAdmin, RoleGestionnaire) {
		t.Fatal("le livreur ne devrait pas avoir accès")
	}
	if HasAccess("", RoleAdmin) {
		t.Fatal("un rôle vide ne devrait jamais avoir accès")
	}
}
