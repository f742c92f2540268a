package model

import "time"

// BlobReclaim is a ledger entry for a blob key that must eventually be deleted
// from the blob store: a failed compensation or a failed post-delete purge.
type BlobReclaim struct {
	BlobKey     string
	Reason      string
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	LastTriedAt *time.Time
}

const (
	ReclaimReasonCompensation = "compensation"
	ReclaimReasonPurge        = "purge"
)
