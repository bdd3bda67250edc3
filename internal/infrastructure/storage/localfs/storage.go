package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// Storage keeps evidence files under basePath. Keys may contain slashes.
type Storage struct {
	basePath  string
	publicURL string
}

// New creates the storage root. publicURL, when set, prefixes receipt URLs;
// otherwise URLs point at the local file.
func New(basePath, publicURL string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/evidence"
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: abs, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *Storage) Save(_ context.Context, key string, data io.Reader) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create evidence dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrNotFound, "open evidence", err)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *Storage) URL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + strings.TrimLeft(key, "/")
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(s.basePath, filepath.FromSlash(key)))}
	return u.String()
}

// resolve maps key into basePath and rejects keys that escape it.
func (s *Storage) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", domain.WrapError(domain.ErrInvalidInput, "evidence key", errors.New("key is empty"))
	}
	path := filepath.Join(s.basePath, clean)
	if !strings.HasPrefix(path, s.basePath+string(filepath.Separator)) {
		return "", domain.WrapError(domain.ErrInvalidInput, "evidence key", fmt.Errorf("key %q escapes storage root", key))
	}
	return path, nil
}
