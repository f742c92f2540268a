package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
)

type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Upsert(ctx context.Context, grant *model.SharedAccess) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockShareRepository) FindActive(ctx context.Context, documentID, granteeID string, now time.Time) (*model.SharedAccess, error) {
	args := m.Called(ctx, documentID, granteeID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedAccess), args.Error(1)
}

func (m *MockShareRepository) ListActiveByDocument(ctx context.Context, documentID string, now time.Time) ([]model.SharedAccess, error) {
	args := m.Called(ctx, documentID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SharedAccess), args.Error(1)
}

func (m *MockShareRepository) ListActiveByGrantee(ctx context.Context, granteeID string, now time.Time) ([]model.SharedAccess, error) {
	args := m.Called(ctx, granteeID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SharedAccess), args.Error(1)
}

func (m *MockShareRepository) Delete(ctx context.Context, documentID, granteeID string) error {
	args := m.Called(ctx, documentID, granteeID)
	return args.Error(0)
}

func (m *MockShareRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
