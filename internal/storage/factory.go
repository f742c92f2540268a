package storage

import (
	"context"
	"fmt"

	"docvault/internal/config"
)

// New builds the backend selected by cfg.Backend and wraps it with retries.
// memoryBaseURL roots the signed URLs of the memory backend.
func New(ctx context.Context, cfg config.StorageConfig, memoryBaseURL string) (Storage, error) {
	var (
		s   Storage
		err error
	)
	switch cfg.Backend {
	case "", "minio":
		s, err = NewMinIO(ctx, cfg.MinIO)
	case "s3":
		s, err = NewS3(ctx, cfg.S3)
	case "memory":
		s, err = NewMemory(memoryBaseURL, cfg.MemorySecret)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return WithRetry(s, cfg.MaxRetries), nil
}

// MemoryOf returns the in-memory backend behind s, if that is what s is.
func MemoryOf(s Storage) (*Memory, bool) {
	if r, ok := s.(*retrying); ok {
		s = r.Storage
	}
	m, ok := s.(*Memory)
	return m, ok
}
