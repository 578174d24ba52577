package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrForeignURL = errors.New("url was not produced by this store")

// LocalStore writes images into a directory on disk and serves them from a
// public base URL. Used in development.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a LocalStore rooted at dir. Files are addressed as
// <baseURL>/uploads/<name>.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	// Random file name keeps user-controlled names off the filesystem.
	name := uuid.New().String() + filepath.Ext(filename)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing image file: %w", err)
	}

	return s.baseURL + "/uploads/" + name, nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	prefix := s.baseURL + "/uploads/"
	if !strings.HasPrefix(url, prefix) {
		return ErrForeignURL
	}

	// path.Base guards against traversal in a tampered URL.
	name := path.Base(strings.TrimPrefix(url, prefix))
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing image file: %w", err)
	}
	return nil
}
