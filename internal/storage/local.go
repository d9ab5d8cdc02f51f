package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/dukerupert/nursery/internal/domain"
)

// LocalStorage publishes assets into the website's public folder, e.g.
// public/images served under /images.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates root if needed.
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, domain.Internal(err, "storage.local", "failed to create asset directory")
	}
	return &LocalStorage{root: root, baseURL: baseURL}, nil
}

// Put writes content to the file backing key. Readers of the public folder
// never see a partially written asset.
func (s *LocalStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	const op = "storage.local.put"

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", domain.Internal(err, op, "failed to create asset folder")
	}
	if err := atomic.WriteFile(dst, content); err != nil {
		return "", domain.Internal(err, op, "failed to write asset")
	}
	if err := os.Chmod(dst, 0644); err != nil {
		return "", domain.Internal(err, op, "failed to set asset permissions")
	}
	return s.URL(key), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return domain.Internal(err, "storage.local.delete", "failed to delete asset")
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	info, err := os.Stat(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, domain.Internal(err, "storage.local.exists", "failed to stat asset")
	}
	return !info.IsDir(), nil
}

// URL returns the site-relative URL for key.
func (s *LocalStorage) URL(key string) string {
	return path.Join("/", s.baseURL, filepath.ToSlash(key))
}

// Path returns the file backing key.
func (s *LocalStorage) Path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}
