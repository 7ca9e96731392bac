package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/config"
)

// URLPrefix route prefix under which stored files are served
const URLPrefix = "/files/"

var (
	ErrNotFound   = errors.New("file not found")
	ErrInvalidKey = errors.New("invalid file key")
)

// Object stored file metadata
type Object struct {
	Key         string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// BlobStore file storage used for uploads, signatures and PDF artifacts
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, *Object, error)
	Delete(ctx context.Context, key string) error
}

// CleanKey normalizes a slash-separated key and rejects keys escaping the root
func CleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, URLPrefix)
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// URL public reference for key
func URL(key string) string {
	return URLPrefix + strings.TrimLeft(key, "/")
}

// KeyFromURL inverse of URL
func KeyFromURL(ref string) (string, error) {
	if !strings.HasPrefix(ref, URLPrefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, ref)
	}
	return CleanKey(ref)
}

// DatedKey builds "<prefix>/YYYY/MM/<id>_<filename>"
func DatedKey(prefix, id, filename string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return fmt.Sprintf("%s/%d/%02d/%s_%s", prefix, now.Year(), now.Month(), id, name)
}

// New selects the blob store named by cfg.Backend ("local" or "minio")
func New(ctx context.Context, cfg config.StorageConfig, mc config.MinIOConfig) (BlobStore, error) {
	switch cfg.Backend {
	case "", "local":
		store, err := NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		client, err := NewMinIOClient(mc)
		if err != nil {
			return nil, fmt.Errorf("connect minio: %w", err)
		}
		store, err := NewMinIOStore(ctx, client, mc.Bucket)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
