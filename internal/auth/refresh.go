package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrRefreshInvalide est retourné quand le token de refresh est invalide ou expiré.
var ErrRefreshInvalide = errors.New("refresh token invalide")

// GenerateRefreshToken crée un token aléatoire sûr et son hash persistable.
// Le token brut n'est jamais stocké : seul le hash est conservé côté serveur.
func GenerateRefreshToken() (raw string, hashed string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}

	raw = base64.RawURLEncoding.EncodeToString(buf)
	hashed = HashRefreshToken(raw)
	return raw, hashed, nil
}

// HashRefreshToken produit un hash SHA-256 encodé base64.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// RefreshRedisKey construit la clé unique du miroir Redis d'une session.
func RefreshRedisKey(hash string) string {
	return fmt.Sprintf("session:%s", hash)
}
