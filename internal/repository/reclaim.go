package repository

import (
	"context"
	"time"

	"docvault/internal/model"
)

// ReclaimRepository is the ledger of blob keys awaiting deletion from the blob store.
type ReclaimRepository interface {
	// Record adds keys to the ledger; keys already present are left untouched.
	Record(ctx context.Context, keys []string, reason string, at time.Time) error
	ListPending(ctx context.Context, limit int) ([]model.BlobReclaim, error)
	Resolve(ctx context.Context, keys []string) error
	MarkAttempt(ctx context.Context, key string, lastErr string, at time.Time) error
}
