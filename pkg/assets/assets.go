// Package assets abstracts the external store holding payment-proof images.
package assets

import (
	"context"
	"io"
)

// UploadResult references a stored asset: a publicly fetchable URL and the
// handle needed to delete it later.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type Store interface {
	Upload(ctx context.Context, data io.Reader, name string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}
