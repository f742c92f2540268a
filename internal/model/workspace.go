package model

import "time"

// DefaultStorageLimit is applied to workspaces created without an explicit limit (5 GiB).
const DefaultStorageLimit int64 = 5 * 1024 * 1024 * 1024

// Workspace owns the aggregate storage counters billed against its quota.
type Workspace struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerID      string    `json:"owner_id"`
	StorageUsed  int64     `json:"storage_used"`
	StorageLimit int64     `json:"storage_limit"`
	Members      []string  `json:"members"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasStorageSpace reports whether size more bytes would still fit the limit.
func (w *Workspace) HasStorageSpace(size int64) bool {
	return size <= w.StorageLimit-w.StorageUsed
}

func (w *Workspace) HasMember(userID string) bool {
	if userID == "" {
		return false
	}
	if w.OwnerID == userID {
		return true
	}
	for _, m := range w.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// QuotaUsage is a read-only view of a workspace's storage counters.
type QuotaUsage struct {
	WorkspaceID  string  `json:"workspace_id"`
	Used         int64   `json:"used"`
	Limit        int64   `json:"limit"`
	Available    int64   `json:"available"`
	UsagePercent float64 `json:"usage_percent"`
}

func (w *Workspace) Usage() QuotaUsage {
	u := QuotaUsage{WorkspaceID: w.ID, Used: w.StorageUsed, Limit: w.StorageLimit}
	if avail := w.StorageLimit - w.StorageUsed; avail > 0 {
		u.Available = avail
	}
	if w.StorageLimit > 0 {
		u.UsagePercent = float64(w.StorageUsed) / float64(w.StorageLimit) * 100
	}
	return u
}
