package repository

import "context"

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Documents  DocumentRepository
	Workspaces WorkspaceRepository
	Shares     ShareRepository
	Folders    FolderRepository
	Reclaims   ReclaimRepository
}

// Transactor runs fn as one atomic unit: either every write made through the
// repositories handed to fn commits, or none does.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Store exposes repositories outside a transaction alongside the Transactor.
type Store interface {
	Transactor
	Repos() Repositories
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
