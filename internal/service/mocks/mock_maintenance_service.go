package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/service"
)

type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) PurgeExpiredGrants(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaintenanceService) PurgeDeleted(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

func (m *MockMaintenanceService) ReclaimBlobs(ctx context.Context, limit int) (service.ReclaimReport, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(service.ReclaimReport), args.Error(1)
}
