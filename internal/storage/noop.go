package storage

import (
	"context"
	"errors"
)

// NoopUploader renvoie une erreur signalant qu'aucun backend n'est configuré.
type NoopUploader struct{}

// Upload échoue toujours, signalant que le stockage n'est pas disponible.
func (NoopUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return nil, errors.New("storage: aucun backend configuré")
}
