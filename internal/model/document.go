package model

import "time"

// DocumentVersion is one entry of a document's append-only version history.
type DocumentVersion struct {
	BlobKey   string    `json:"-"`
	Version   int       `json:"version"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Document represents a stored file and its version history.
// This is a pure domain model with no database-specific dependencies or tags.
// Blob keys are never serialized so they cannot leak through API responses.
type Document struct {
	ID             string            `json:"id"`
	OwnerID        string            `json:"owner_id"`
	WorkspaceID    string            `json:"workspace_id"`
	FolderID       *string           `json:"folder_id"`
	OriginalName   string            `json:"original_name"`
	MimeType       string            `json:"mime_type"`
	CurrentBlobKey string            `json:"-"`
	CurrentSize    int64             `json:"size"`
	VersionNumber  int               `json:"version_number"`
	Versions       []DocumentVersion `json:"versions"`
	Tags           []string          `json:"tags"`
	IsDeleted      bool              `json:"is_deleted"`
	DeletedAt      *time.Time        `json:"deleted_at,omitempty"`
	BlobsPurgedAt  *time.Time        `json:"-"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewDocument builds a document at version 1 pointing at blobKey.
func NewDocument(id, ownerID, workspaceID, name, mimeType, blobKey string, size int64, at time.Time) *Document {
	return &Document{
		ID:             id,
		OwnerID:        ownerID,
		WorkspaceID:    workspaceID,
		OriginalName:   name,
		MimeType:       mimeType,
		CurrentBlobKey: blobKey,
		CurrentSize:    size,
		VersionNumber:  1,
		Versions: []DocumentVersion{
			{BlobKey: blobKey, Version: 1, Size: size, CreatedAt: at},
		},
		Tags:      []string{},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// AppendVersion adds the next version and moves the current pointer to it.
func (d *Document) AppendVersion(blobKey string, size int64, at time.Time) DocumentVersion {
	d.VersionNumber++
	v := DocumentVersion{BlobKey: blobKey, Version: d.VersionNumber, Size: size, CreatedAt: at}
	d.Versions = append(d.Versions, v)
	d.CurrentBlobKey = blobKey
	d.CurrentSize = size
	d.UpdatedAt = at
	return v
}

// Footprint is the number of bytes billed for the document: every retained version.
func (d *Document) Footprint() int64 {
	var total int64
	for _, v := range d.Versions {
		total += v.Size
	}
	return total
}

// BlobKeys returns the distinct keys referenced by the document, oldest first.
func (d *Document) BlobKeys() []string {
	seen := make(map[string]struct{}, len(d.Versions)+1)
	keys := make([]string, 0, len(d.Versions)+1)
	add := func(k string) {
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, v := range d.Versions {
		add(v.BlobKey)
	}
	add(d.CurrentBlobKey)
	return keys
}

func (d *Document) IsOwner(userID string) bool {
	return userID != "" && d.OwnerID == userID
}

// Restorable reports whether a soft-deleted document still has its blobs.
func (d *Document) Restorable() bool {
	return d.IsDeleted && d.BlobsPurgedAt == nil
}

func (d *Document) MarkDeleted(at time.Time) {
	d.IsDeleted = true
	d.DeletedAt = &at
	d.UpdatedAt = at
}

func (d *Document) ClearDeleted(at time.Time) {
	d.IsDeleted = false
	d.DeletedAt = nil
	d.UpdatedAt = at
}
