// Package storage publishes website assets (plant photos, product cards)
// to the local public folder or to Cloudflare R2.
package storage

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/dukerupert/nursery/internal"
	"github.com/dukerupert/nursery/internal/domain"
)

// Storage is where published assets live. Keys are slash-separated and
// relative to the asset root (e.g. "product-cards/maple.png").
type Storage interface {
	// Put stores content under key, replacing any previous object, and
	// returns its public URL.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key has been published.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL for key.
	URL(key string) string
}

// NewStorage returns LocalStorage for the "local" provider and R2Storage
// for "r2".
func NewStorage(cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	case "r2":
		return NewR2Storage(R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}

// PutFile publishes a local file under key. A missing source is ENOTFOUND.
func PutFile(ctx context.Context, s Storage, key, src string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.NotFound("storage.put_file", "source file", src)
		}
		return "", domain.Internal(err, "storage.put_file", "failed to open source file")
	}
	defer f.Close()

	return s.Put(ctx, key, f, ContentType(src))
}

// ContentType guesses a MIME type from a file extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
