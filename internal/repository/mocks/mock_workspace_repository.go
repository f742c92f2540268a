package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
)

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, ws *model.Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) FindByID(ctx context.Context, id string) (*model.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) IsMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	args := m.Called(ctx, workspaceID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkspaceRepository) AddMember(ctx context.Context, workspaceID, userID string) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Admit(ctx context.Context, workspaceID string, delta int64) (int64, error) {
	args := m.Called(ctx, workspaceID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkspaceRepository) Release(ctx context.Context, workspaceID string, delta int64) (int64, error) {
	args := m.Called(ctx, workspaceID, delta)
	return args.Get(0).(int64), args.Error(1)
}
