package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
)

type MockReclaimRepository struct {
	mock.Mock
}

func (m *MockReclaimRepository) Record(ctx context.Context, keys []string, reason string, at time.Time) error {
	args := m.Called(ctx, keys, reason, at)
	return args.Error(0)
}

func (m *MockReclaimRepository) ListPending(ctx context.Context, limit int) ([]model.BlobReclaim, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BlobReclaim), args.Error(1)
}

func (m *MockReclaimRepository) Resolve(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockReclaimRepository) MarkAttempt(ctx context.Context, key string, lastErr string, at time.Time) error {
	args := m.Called(ctx, key, lastErr, at)
	return args.Error(0)
}
