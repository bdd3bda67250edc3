package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// Storage keeps evidence objects in one Cloud Storage bucket under prefix.
type Storage struct {
	client *storage.Client
	bucket string
	prefix string
}

// New uses application default credentials.
func New(ctx context.Context, bucket, prefix string) (*Storage, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("gcs bucket is empty")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &Storage{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) Save(ctx context.Context, key string, data io.Reader) error {
	w := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewWriter(ctx)
	w.ContentType = contentType(key)
	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return domain.WrapError(domain.ErrTemporary, "upload evidence", err)
	}
	if err := w.Close(); err != nil {
		return domain.WrapError(domain.ErrTemporary, "finalize evidence upload", err)
	}
	return nil
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, domain.WrapError(domain.ErrNotFound, "open evidence", err)
		}
		return nil, fmt.Errorf("open gcs object: %w", err)
	}
	return r, nil
}

func (s *Storage) URL(key string) string {
	return objectURL(s.bucket, s.objectName(key))
}

func (s *Storage) objectName(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func objectURL(bucket, object string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + object}
	return u.String()
}

func contentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
