package store

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const gcsImagePrefix = "images"

// GCSImageStore holds uploaded photos in a Google Cloud Storage bucket.
// Credentials come from the environment (application default
// credentials), matching how the service runs on Cloud Run.
type GCSImageStore struct {
	client *storage.Client
	bucket string
}

func NewGCSImageStore(ctx context.Context, bucket string) (*GCSImageStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSImageStore{client: client, bucket: bucket}, nil
}

// Upload writes data to the bucket under a timestamped unique name and
// returns that name as the external file identifier.
func (s *GCSImageStore) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	id := uniqueImageName(filename)

	w := s.client.Bucket(s.bucket).Object(path.Join(gcsImagePrefix, id)).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("write object %s: %w", id, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", id, err)
	}
	return id, nil
}

// Fetch reads an uploaded image back with its stored content type.
func (s *GCSImageStore) Fetch(ctx context.Context, id string) ([]byte, string, error) {
	r, err := s.client.Bucket(s.bucket).Object(path.Join(gcsImagePrefix, id)).NewReader(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("open object %s: %w", id, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read object %s: %w", id, err)
	}
	return data, r.Attrs.ContentType, nil
}

// Close releases the underlying client.
func (s *GCSImageStore) Close() error {
	return s.client.Close()
}

// uniqueImageName keeps the original extension and avoids collisions
// with a timestamp plus a short random component.
func uniqueImageName(filename string) string {
	return fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102-150405"),
		uuid.NewString()[:8],
		filepath.Ext(filename))
}
