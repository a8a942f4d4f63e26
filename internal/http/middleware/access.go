package middleware

import (
	"net/http"
	"sort"
	"strings"

	"github.com/logitrack/api/internal/auth"
)

// Regle associe un préfixe de route aux rôles autorisés. La table est la
// source unique des droits : le serveur l'applique et l'expose telle quelle
// pour que l'interface masque les entrées de menu sans dupliquer la logique.
type Regle struct {
	Prefixe string   `json:"prefixe"`
	Roles   []string `json:"roles"`
}

var tousRoles = []string{auth.RoleAdmin, auth.RoleGestionnaire, auth.RoleLivreur}
var gestion = []string{auth.RoleAdmin, auth.RoleGestionnaire}

// regles liste les droits par préfixe. Le préfixe le plus long l'emporte.
var regles = []Regle{
	{Prefixe: "/me", Roles: tousRoles},
	{Prefixe: "/notifications", Roles: tousRoles},
	{Prefixe: "/notifications/diffusion", Roles: gestion},
	{Prefixe: "/recherche", Roles: gestion},
	{Prefixe: "/colis", Roles: tousRoles},
	{Prefixe: "/clients", Roles: gestion},
	{Prefixe: "/entreprises", Roles: gestion},
	{Prefixe: "/livreurs", Roles: gestion},
	{Prefixe: "/bons", Roles: gestion},
	{Prefixe: "/utilisateurs", Roles: []string{auth.RoleAdmin}},
}

// Regles renvoie la table triée par préfixe, pour l'endpoint public de
// configuration des accès.
func Regles() []Regle {
	out := make([]Regle, len(regles))
	copy(out, regles)
	sort.Slice(out, func(i, j int) bool { return out[i].Prefixe < out[j].Prefixe })
	return out
}

// reglePour renvoie la règle au préfixe le plus long couvrant le chemin.
func reglePour(path string) (Regle, bool) {
	var best Regle
	found := false
	for _, r := range regles {
		if path == r.Prefixe || strings.HasPrefix(path, r.Prefixe+"/") {
			if !found || len(r.Prefixe) > len(best.Prefixe) {
				best = r
				found = true
			}
		}
	}
	return best, found
}

// Access applique la table de règles au rôle du contexte. Les chemins sans
// règle sont refusés : tout nouvel endpoint doit déclarer ses rôles.
func Access(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		regle, ok := reglePour(r.URL.Path)
		if !ok {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "accès non déclaré pour cette route")
			return
		}

		role := GetRole(r.Context())
		if !auth.HasAccess(role, regle.Roles...) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "accès refusé pour ce rôle")
			return
		}

		next.ServeHTTP(w, r)
	})
}
