package repo

import "errors"

var (
	// ErrNotFound est retourné quand aucun enregistrement ne correspond.
	ErrNotFound = errors.New("enregistrement introuvable")
)
