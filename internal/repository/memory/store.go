// Package memory is an in-process implementation of repository.Store. Transactions
// are serialized by a single lock and rolled back by restoring a snapshot, which
// gives the same atomicity the PostgreSQL store provides for tests and local runs.
package memory

import (
	"context"
	"sync"

	"docvault/internal/model"
	"docvault/internal/repository"
)

type shareKey struct {
	documentID string
	granteeID  string
}

type state struct {
	workspaces map[string]*model.Workspace
	documents  map[string]*model.Document
	shares     map[shareKey]*model.SharedAccess
	folders    map[string]*model.Folder
	reclaims   map[string]*model.BlobReclaim
}

func newState() *state {
	return &state{
		workspaces: map[string]*model.Workspace{},
		documents:  map[string]*model.Document{},
		shares:     map[shareKey]*model.SharedAccess{},
		folders:    map[string]*model.Folder{},
		reclaims:   map[string]*model.BlobReclaim{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.workspaces {
		c.workspaces[k] = copyWorkspace(v)
	}
	for k, v := range s.documents {
		c.documents[k] = copyDocument(v)
	}
	for k, v := range s.shares {
		c.shares[k] = copyShare(v)
	}
	for k, v := range s.folders {
		f := *v
		c.folders[k] = &f
	}
	for k, v := range s.reclaims {
		r := *v
		c.reclaims[k] = &r
	}
	return c
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

var _ repository.Store = (*Store)(nil)

// Repos returns repositories whose every call is its own transaction.
func (s *Store) Repos() repository.Repositories {
	return s.repos(false)
}

// WithinTx holds the store lock for the duration of fn and restores the
// pre-transaction state if fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, s.repos(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) repos(inTx bool) repository.Repositories {
	return repository.Repositories{
		Documents:  &documentRepo{s: s, inTx: inTx},
		Workspaces: &workspaceRepo{s: s, inTx: inTx},
		Shares:     &shareRepo{s: s, inTx: inTx},
		Folders:    &folderRepo{s: s, inTx: inTx},
		Reclaims:   &reclaimRepo{s: s, inTx: inTx},
	}
}

// run executes fn against the live state, taking the lock unless the caller
// already holds it through WithinTx.
func (s *Store) run(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

func copyWorkspace(w *model.Workspace) *model.Workspace {
	c := *w
	c.Members = append([]string(nil), w.Members...)
	return &c
}

func copyDocument(d *model.Document) *model.Document {
	c := *d
	c.Versions = append([]model.DocumentVersion(nil), d.Versions...)
	c.Tags = append([]string{}, d.Tags...)
	c.FolderID = copyString(d.FolderID)
	c.DeletedAt = copyTime(d.DeletedAt)
	c.BlobsPurgedAt = copyTime(d.BlobsPurgedAt)
	return &c
}

func copyShare(g *model.SharedAccess) *model.SharedAccess {
	c := *g
	c.ExpiresAt = copyTime(g.ExpiresAt)
	return &c
}
