package repository

import (
	"context"
	"time"

	"docvault/internal/model"
)

// DocumentRepository defines data access for documents and their version history.
// Implementations hold persistence only.
type DocumentRepository interface {
	// Create inserts a new document record together with its version 1 history entry.
	// A duplicate blob key yields errors.ErrConflict.
	Create(ctx context.Context, doc *model.Document) error

	// FindByID returns a document with its full version history, deleted or not.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindByIDForUpdate is FindByID holding a row lock until the transaction ends.
	// It serializes version appends and state changes on one document.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Document, error)

	// AppendVersion persists the last entry of doc.Versions and moves the current pointer,
	// provided the stored version number still equals expectedVersion. Otherwise errors.ErrConflict.
	AppendVersion(ctx context.Context, doc *model.Document, expectedVersion int) error

	// UpdateMetadata persists name, folder and tags.
	UpdateMetadata(ctx context.Context, doc *model.Document) error

	// SetDeleted persists the soft-delete flags and the purge marker of doc.
	SetDeleted(ctx context.Context, doc *model.Document) error

	// MarkBlobsPurged records that the document's blobs have been handed to the blob store for deletion.
	MarkBlobsPurged(ctx context.Context, id string, at time.Time) error

	// List returns a page of non-deleted documents matching the query.
	List(ctx context.Context, q DocumentQuery) (*PageResult[model.Document], error)

	// ListPurgeCandidates returns ids of documents soft-deleted before cutoff whose blobs are still resident.
	ListPurgeCandidates(ctx context.Context, cutoff time.Time, limit int) ([]string, error)

	// ReferencedKeys returns the subset of keys still referenced by any document version
	// whose blobs have not been purged.
	ReferencedKeys(ctx context.Context, keys []string) (map[string]bool, error)
}

// DocumentQuery filters a document listing.
type DocumentQuery struct {
	WorkspaceID string
	FolderID    *string
	Tags        []string
	Search      string
	Page        PageQuery
}
