package store

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LocalImageStore keeps uploaded photos in a directory on disk. It is
// the development fallback when the service is not running with GCS
// credentials.
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uniqueImageName(filename)
	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0644); err != nil {
		return "", fmt.Errorf("save file %s: %w", id, err)
	}
	return id, nil
}

func (s *LocalImageStore) Fetch(ctx context.Context, id string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	// Uploaded ids never contain separators; reject anything that tries
	// to escape the upload directory.
	if id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return nil, "", fmt.Errorf("invalid image id %q", id)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id))
	if err != nil {
		return nil, "", fmt.Errorf("read file %s: %w", id, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(id))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
