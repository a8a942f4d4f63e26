package util

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail retourne une erreur pour les e-mails invalides.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email obligatoire")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email invalide")
	}
	return nil
}

// ValidatePassword vérifie les exigences minimales de mot de passe.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("le mot de passe doit faire au moins 8 caractères")
	}
	return nil
}

// RequireString garantit une chaîne non vide.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(field + " obligatoire")
	}
	return nil
}
