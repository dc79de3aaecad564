// Package media is the boundary to image storage. The API layer hands it
// uploaded volunteer photos and gets back a stable URL to persist; deleting a
// volunteer hands the URL back for removal.
package media

import (
	"context"
	"io"
)

// Store accepts uploaded images and serves them by stable URL.
type Store interface {
	// Save persists content under a name derived from filename and returns
	// the public URL path for the stored image.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)

	// Remove deletes the image behind a previously returned URL. Removing a
	// URL that no longer resolves is not an error.
	Remove(ctx context.Context, url string) error
}
