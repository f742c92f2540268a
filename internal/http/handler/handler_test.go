package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/service"
	serviceMocks "docvault/internal/service/mocks"
	"docvault/internal/storage"
)

// newApp mirrors the production wiring of error handler, request id and actor middleware.
func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	return app
}

func newRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(middleware.ActorHeader, "alice")
	return req
}

func jsonRequest(method, target string, v any) *http.Request {
	b, _ := json.Marshal(v)
	req := newRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(target, filename, content string, fields map[string]string) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(content))
	writer.Close()

	req := newRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})

	t.Run("no database", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(nil))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("x: %w", appErr.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("x: %w", appErr.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("x: %w", appErr.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("x: %w", appErr.ErrQuotaExceeded), http.StatusRequestEntityTooLarge, "QUOTA_EXCEEDED"},
		{fmt.Errorf("x: %w", appErr.ErrConflict), http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("ws-1/secret.pdf: %w", appErr.ErrUpstreamStorage), http.StatusBadGateway, "UPSTREAM_STORAGE"},
		{errors.New("pq: relation documents does not exist"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			app := newApp()
			app.Get("/test", func(c *fiber.Ctx) error { return writeServiceError(c, tt.err) })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			res := decodeError(t, resp)
			assert.Equal(t, tt.wantCode, res.Error.Code)
			assert.NotEmpty(t, res.RequestID)
			assert.NotContains(t, res.Error.Message, "secret.pdf")
			assert.NotContains(t, res.Error.Message, "relation")
		})
	}
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp()
	app.Get("/workspaces/:id/documents", middleware.RequireActor(), ListDocuments(mockSvc))
	wsID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.NewString(), OriginalName: "test.pdf"}},
			Total: 11, Page: 2, Limit: 10,
			TotalPages: 2, HasPrevPage: true,
		}
		mockSvc.On("List", mock.Anything, "alice", service.ListInput{
			WorkspaceID: wsID,
			Tags:        []string{"a", "b"},
			Search:      "report",
			Page:        2,
			Limit:       10,
		}).Return(expectedRes, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/workspaces/"+wsID+"/documents?page=2&limit=10&tags=a,b&q=report", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 11, result.Total)
		assert.Equal(t, 2, result.TotalPages)
		assert.False(t, result.HasNextPage)
		assert.True(t, result.HasPrevPage)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(newRequest(http.MethodGet, "/workspaces/"+wsID+"/documents?limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_QUERY", decodeError(t, resp).Error.Code)
	})

	t.Run("negative page", func(t *testing.T) {
		resp, _ := app.Test(newRequest(http.MethodGet, "/workspaces/"+wsID+"/documents?page=-1", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("not a member", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "alice", mock.Anything).Return(nil, appErr.ErrForbidden).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/workspaces/"+wsID+"/documents", nil))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing actor", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/workspaces/"+wsID+"/documents", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp()
	app.Post("/workspaces/:id/documents", middleware.RequireActor(), UploadDocument(mockSvc))
	wsID := uuid.NewString()
	folderID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		expectedDoc := &model.Document{ID: uuid.NewString(), OriginalName: "test.txt"}
		mockSvc.On("Upload", mock.Anything, "alice", mock.MatchedBy(func(in service.UploadInput) bool {
			return in.WorkspaceID == wsID && in.Filename == "test.txt" && in.Size == 11 &&
				in.FolderID != nil && *in.FolderID == folderID &&
				assert.ObjectsAreEqual([]string{"x", "y"}, in.Tags)
		})).Return(expectedDoc, nil).Once()

		req := multipartRequest("/workspaces/"+wsID+"/documents", "test.txt", "hello world",
			map[string]string{"folder_id": folderID, "tags": "x,y"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expectedDoc.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		resp, _ := app.Test(newRequest(http.MethodPost, "/workspaces/"+wsID+"/documents", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("quota exceeded", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, "alice", mock.Anything).
			Return(nil, fmt.Errorf("need 5 bytes, 0 available: %w", appErr.ErrQuotaExceeded)).Once()

		resp, _ := app.Test(multipartRequest("/workspaces/"+wsID+"/documents", "test.txt", "hello", nil))

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Equal(t, "QUOTA_EXCEEDED", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, "alice", mock.Anything).Return(nil, errors.New("upload failed")).Once()

		resp, _ := app.Test(multipartRequest("/workspaces/"+wsID+"/documents", "test.txt", "hello", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp()
	app.Get("/documents/:id", middleware.RequireActor(), GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		expectedDoc := &model.Document{ID: id, OriginalName: "test.txt", CurrentBlobKey: "ws/secret-key"}
		mockSvc.On("Get", mock.Anything, "alice", id).Return(expectedDoc, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.NotContains(t, string(raw), "secret-key", "blob keys are never serialized")
		var result model.Document
		require.NoError(t, json.Unmarshal(raw, &result))
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, "alice", id).Return(nil, appErr.ErrNotFound).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/invalid-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestUpdateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp()
	app.Patch("/documents/:id", middleware.RequireActor(), UpdateDocument(mockSvc))
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		mockSvc.On("UpdateMetadata", mock.Anything, "alice", id, mock.MatchedBy(func(u service.MetadataUpdate) bool {
			return u.Name != nil && *u.Name == "renamed.pdf" && u.FolderID == nil && len(u.Tags) == 1
		})).Return(&model.Document{ID: id, OriginalName: "renamed.pdf"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/documents/"+id, map[string]any{
			"name": "renamed.pdf",
			"tags": []string{"final"},
		}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("name too long", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/documents/"+id, map[string]any{
			"name": strings.Repeat("n", 256),
		}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := newRequest(http.MethodPatch, "/documents/"+id, strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})

	t.Run("non-owner", func(t *testing.T) {
		mockSvc.On("UpdateMetadata", mock.Anything, "alice", id, mock.Anything).Return(nil, appErr.ErrForbidden).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/documents/"+id, map[string]any{"tags": []string{}}))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteAndRestoreDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp()
	app.Delete("/documents/:id", middleware.RequireActor(), DeleteDocument(mockSvc))
	app.Post("/documents/:id/restore", middleware.RequireActor(), RestoreDocument(mockSvc))
	id := uuid.NewString()

	t.Run("delete", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "alice", id).Return(nil).Once()

		resp, _ := app.Test(newRequest(http.MethodDelete, "/documents/"+id, nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("restore purged", func(t *testing.T) {
		mockSvc.On("Restore", mock.Anything, "alice", id).
			Return(nil, fmt.Errorf("restore document: %w: content already purged", appErr.ErrConflict)).Once()

		resp, _ := app.Test(newRequest(http.MethodPost, "/documents/"+id+"/restore", nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", decodeError(t, resp).Error.Code)
	})

	t.Run("restore without headroom", func(t *testing.T) {
		mockSvc.On("Restore", mock.Anything, "alice", id).Return(nil, appErr.ErrQuotaExceeded).Once()

		resp, _ := app.Test(newRequest(http.MethodPost, "/documents/"+id+"/restore", nil))

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	})
	mockSvc.AssertExpectations(t)
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp()
	app.Get("/documents/:id/download", middleware.RequireActor(), DownloadDocument(mockSvc))
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		link := &service.DownloadLink{URL: "http://blobs/x?sig=1", ExpiresIn: 3600, Filename: "a.pdf"}
		mockSvc.On("DownloadURL", mock.Anything, "alice", id).Return(link, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/"+id+"/download", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got service.DownloadLink
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, int64(3600), got.ExpiresIn)
	})

	t.Run("upstream failure", func(t *testing.T) {
		mockSvc.On("DownloadURL", mock.Anything, "alice", id).
			Return(nil, fmt.Errorf("issue download url: %w", appErr.ErrUpstreamStorage)).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/documents/"+id+"/download", nil))

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "UPSTREAM_STORAGE", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestGrantAccess(t *testing.T) {
	mockSvc := new(serviceMocks.MockShareService)
	app := newApp()
	app.Post("/documents/:id/shares", middleware.RequireActor(), GrantAccess(mockSvc))
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		mockSvc.On("Grant", mock.Anything, "alice", id, mock.MatchedBy(func(in service.GrantInput) bool {
			return in.GranteeID == "bob" && in.Permission == model.PermissionDownload &&
				in.ExpiresAt != nil && in.ExpiresAt.Equal(expires)
		})).Return(&model.SharedAccess{DocumentID: id, GranteeID: "bob", Permission: model.PermissionDownload}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents/"+id+"/shares", map[string]any{
			"grantee_id": "bob",
			"permission": "download",
			"expires_at": expires.Format(time.RFC3339),
		}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "DOWNLOAD", body["permission"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown permission", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents/"+id+"/shares", map[string]any{
			"grantee_id": "bob",
			"permission": "ADMIN",
		}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})
}

func TestWorkspaceRoutes(t *testing.T) {
	wsSvc := new(serviceMocks.MockWorkspaceService)
	folderSvc := new(serviceMocks.MockFolderService)
	app := newApp()
	RegisterRoutes(app, Deps{Workspaces: wsSvc, Folders: folderSvc})
	wsID := uuid.NewString()

	t.Run("create", func(t *testing.T) {
		wsSvc.On("Create", mock.Anything, "alice", "research", int64(1024)).
			Return(&model.Workspace{ID: wsID, Name: "research", OwnerID: "alice", StorageLimit: 1024}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/workspaces", map[string]any{"name": "research", "storage_limit": 1024}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("create without name", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/workspaces", map[string]any{}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("add member", func(t *testing.T) {
		wsSvc.On("AddMember", mock.Anything, "alice", wsID, "bob").Return(nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/workspaces/"+wsID+"/members", map[string]any{"user_id": "bob"}))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("usage", func(t *testing.T) {
		wsSvc.On("Usage", mock.Anything, "alice", wsID).
			Return(&model.QuotaUsage{WorkspaceID: wsID, Used: 10, Limit: 100, Available: 90, UsagePercent: 10}, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/workspaces/"+wsID+"/usage", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var usage model.QuotaUsage
		json.NewDecoder(resp.Body).Decode(&usage)
		assert.Equal(t, int64(90), usage.Available)
	})

	t.Run("create folder with slash", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/workspaces/"+wsID+"/folders", map[string]any{"name": "a/b"}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list folders", func(t *testing.T) {
		folderSvc.On("List", mock.Anything, "alice", wsID).Return([]model.Folder{{ID: uuid.NewString(), Name: "reports"}}, nil).Once()

		resp, _ := app.Test(newRequest(http.MethodGet, "/workspaces/"+wsID+"/folders", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	wsSvc.AssertExpectations(t)
	folderSvc.AssertExpectations(t)
}

func TestServeBlob(t *testing.T) {
	blobs, err := storage.NewMemory("http://example.com/blobs", "secret")
	require.NoError(t, err)
	_, err = blobs.Put(context.Background(), "ws/1-a.txt", strings.NewReader("payload"), storage.PutObjectOptions{Size: 7, ContentType: "text/plain"})
	require.NoError(t, err)

	app := newApp()
	RegisterRoutes(app, Deps{MemoryBlobs: blobs})

	signed, err := blobs.PresignGet(context.Background(), "ws/1-a.txt", time.Minute)
	require.NoError(t, err)
	path := strings.TrimPrefix(signed, "http://example.com")

	t.Run("valid signature", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "payload", string(body))
	})

	t.Run("tampered signature", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, strings.Replace(path, "1-a.txt", "1-b.txt", 1), nil))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "INVALID_SIGNATURE", decodeError(t, resp).Error.Code)
	})
}

func TestRouting(t *testing.T) {
	app := newApp()
	RegisterRoutes(app, Deps{Documents: new(serviceMocks.MockDocumentService)})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("document routes need an actor", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
