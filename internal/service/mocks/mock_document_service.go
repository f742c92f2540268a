package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, actorID string, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, actorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) UploadVersion(ctx context.Context, actorID, documentID string, in service.VersionInput) (*model.Document, error) {
	args := m.Called(ctx, actorID, documentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, actorID, documentID string) (*model.Document, error) {
	args := m.Called(ctx, actorID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, actorID string, in service.ListInput) (*service.DocumentListResult, error) {
	args := m.Called(ctx, actorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Versions(ctx context.Context, actorID, documentID string) ([]model.DocumentVersion, error) {
	args := m.Called(ctx, actorID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentService) UpdateMetadata(ctx context.Context, actorID, documentID string, upd service.MetadataUpdate) (*model.Document, error) {
	args := m.Called(ctx, actorID, documentID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, actorID, documentID string) error {
	args := m.Called(ctx, actorID, documentID)
	return args.Error(0)
}

func (m *MockDocumentService) Restore(ctx context.Context, actorID, documentID string) (*model.Document, error) {
	args := m.Called(ctx, actorID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, actorID, documentID string) (*service.DownloadLink, error) {
	args := m.Called(ctx, actorID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadLink), args.Error(1)
}
