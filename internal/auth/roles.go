package auth

import (
	"errors"
	"strings"
)

// Rôles canoniques de LogiTrack. La casse stockée en base peut varier
// (imports historiques), la forme canonique est première lettre en
// majuscule, le reste en minuscules.
const (
	RoleAdmin        = "Admin"
	RoleGestionnaire = "Gestionnaire"
	RoleLivreur      = "Livreur"
)

// ErrRoleInconnu est retourné quand un rôle ne correspond à aucun rôle connu.
var ErrRoleInconnu = errors.New("rôle inconnu")

var rolesConnus = map[string]struct{}{
	RoleAdmin:        {},
	RoleGestionnaire: {},
	RoleLivreur:      {},
}

// NormalizeRole ramène un rôle à sa forme canonique ("LIVREUR" -> "Livreur").
func NormalizeRole(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return ""
	}
	lower := strings.ToLower(role)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// ValidateRole vérifie que le rôle normalisé fait partie des trois rôles connus.
func ValidateRole(role string) (string, error) {
	normalized := NormalizeRole(role)
	if _, ok := rolesConnus[normalized]; !ok {
		return "", ErrRoleInconnu
	}
	return normalized, nil
}

// HasAccess indique si role appartient à la liste autorisée (comparaison normalisée).
func HasAccess(role string, allowed ...string) bool {
	normalized := NormalizeRole(role)
	for _, a := range allowed {
		if normalized == NormalizeRole(a) {
			return true
		}
	}
	return false
}
