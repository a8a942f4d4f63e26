package storage

import "context"

// UploadInput représente une opération de téléversement simple.
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult décrit l'artefact persisté.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader définit le comportement minimal pour stocker des blobs
// (preuves de livraison, documents de bons).
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}
