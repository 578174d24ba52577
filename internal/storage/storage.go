// Package storage holds the profile-image backends. The service layer only
// sees the ImageStore interface; the backend is picked from configuration
// at startup (local disk in development, S3-compatible storage otherwise).
package storage

import (
	"context"
	"io"
)

// ImageStore saves uploaded profile images and deletes them by the URL that
// was handed out at save time.
type ImageStore interface {
	// Save stores the image content and returns its public URL. The
	// original filename is used only for its extension.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)

	// Delete removes a previously stored image given its URL. Deleting a
	// URL this store did not produce is an error; deleting an image that
	// is already gone is not.
	Delete(ctx context.Context, url string) error
}
