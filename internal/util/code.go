package util

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenererCode construit un code métier lisible, ex. "COL-20260829-7F3A2B".
// Le suffixe aléatoire suffit à éviter les collisions à l'échelle du jour ;
// la contrainte d'unicité en base reste le garde-fou final.
func GenererCode(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + "-" + time.Now().UTC().Format("20060102") + "-" + suffix
}
