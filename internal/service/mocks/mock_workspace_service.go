package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
)

type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) Create(ctx context.Context, ownerID, name string, limit int64) (*model.Workspace, error) {
	args := m.Called(ctx, ownerID, name, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Get(ctx context.Context, actorID, workspaceID string) (*model.Workspace, error) {
	args := m.Called(ctx, actorID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) AddMember(ctx context.Context, actorID, workspaceID, userID string) error {
	args := m.Called(ctx, actorID, workspaceID, userID)
	return args.Error(0)
}

func (m *MockWorkspaceService) Usage(ctx context.Context, actorID, workspaceID string) (*model.QuotaUsage, error) {
	args := m.Called(ctx, actorID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuotaUsage), args.Error(1)
}
