package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix is where the router serves stored images from.
const PublicPrefix = "/media/"

// DiskStore keeps uploaded images on the local filesystem under a single
// directory, served by the HTTP layer at PublicPrefix.
type DiskStore struct {
	dir string
}

// NewDiskStore ensures the media directory exists.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the backing directory, for mounting a file server.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	// Random name plus original extension; the client-supplied name never
	// touches the filesystem.
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}
	return PublicPrefix + name, nil
}

func (s *DiskStore) Remove(_ context.Context, url string) error {
	name, ok := strings.CutPrefix(url, PublicPrefix)
	if !ok || name == "" {
		return nil
	}
	// Base strips any path traversal a stored URL could smuggle in.
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}
