package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/storage"
)

// Upload key prefixes
const (
	UploadPrefix    = "uploads"
	SignaturePrefix = "signatures"
)

// UploadedFile stored file reference
type UploadedFile struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// UploadService stores client files in the blob store
type UploadService struct {
	store storage.BlobStore
}

// NewUploadService creates an upload service
func NewUploadService(store storage.BlobStore) *UploadService {
	return &UploadService{store: store}
}

// Save stores r under prefix/YYYY/MM/<id>_<filename>
func (s *UploadService) Save(ctx context.Context, prefix, filename string, r io.Reader, size int64, contentType string) (*UploadedFile, error) {
	id := entity.NewID()
	key := storage.DatedKey(prefix, id, filename, time.Now())
	if err := s.store.Put(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("store %s: %w", filename, err)
	}
	return &UploadedFile{
		ID:          id,
		URL:         storage.URL(key),
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// SaveMultipart stores one multipart file part
func (s *UploadService) SaveMultipart(ctx context.Context, prefix string, fh *multipart.FileHeader) (*UploadedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.Save(ctx, prefix, fh.Filename, src, fh.Size, contentType)
}

// Open opens a stored file by key or /files/ reference
func (s *UploadService) Open(ctx context.Context, ref string) (io.ReadCloser, *storage.Object, error) {
	key, err := storage.CleanKey(ref)
	if err != nil {
		return nil, nil, err
	}
	return s.store.Open(ctx, key)
}
