package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/repository"
)

// Store wires mock repositories into a repository.Store. WithinTx hands the same
// mocks to fn and counts how many transactions were opened.
type Store struct {
	Documents  *MockDocumentRepository
	Workspaces *MockWorkspaceRepository
	Shares     *MockShareRepository
	Folders    *MockFolderRepository
	Reclaims   *MockReclaimRepository

	Transactions int
}

func NewStore() *Store {
	return &Store{
		Documents:  new(MockDocumentRepository),
		Workspaces: new(MockWorkspaceRepository),
		Shares:     new(MockShareRepository),
		Folders:    new(MockFolderRepository),
		Reclaims:   new(MockReclaimRepository),
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Repos() repository.Repositories {
	return repository.Repositories{
		Documents:  s.Documents,
		Workspaces: s.Workspaces,
		Shares:     s.Shares,
		Folders:    s.Folders,
		Reclaims:   s.Reclaims,
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.Transactions++
	return fn(ctx, s.Repos())
}

// AssertExpectations checks every mock repository.
func (s *Store) AssertExpectations(t mock.TestingT) {
	s.Documents.AssertExpectations(t)
	s.Workspaces.AssertExpectations(t)
	s.Shares.AssertExpectations(t)
	s.Folders.AssertExpectations(t)
	s.Reclaims.AssertExpectations(t)
}
