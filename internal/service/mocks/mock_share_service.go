package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/service"
)

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) Grant(ctx context.Context, actorID, documentID string, in service.GrantInput) (*model.SharedAccess, error) {
	args := m.Called(ctx, actorID, documentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedAccess), args.Error(1)
}

func (m *MockShareService) Revoke(ctx context.Context, actorID, documentID, granteeID string) error {
	args := m.Called(ctx, actorID, documentID, granteeID)
	return args.Error(0)
}

func (m *MockShareService) ListForDocument(ctx context.Context, actorID, documentID string) ([]model.SharedAccess, error) {
	args := m.Called(ctx, actorID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SharedAccess), args.Error(1)
}

func (m *MockShareService) ListSharedWithMe(ctx context.Context, actorID string) ([]model.SharedAccess, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SharedAccess), args.Error(1)
}

func (m *MockShareService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
