package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"docvault/internal/metrics"
	"docvault/internal/model"
	appErr "docvault/internal/pkg/errors"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	MaxNameLength    = 255

	DefaultDownloadURLTTL = time.Hour
)

var tracer = otel.Tracer("docvault/service")

// UploadInput describes a new document. Size must be the exact payload length.
type UploadInput struct {
	WorkspaceID string
	FolderID    *string
	Filename    string
	ContentType string
	Size        int64
	Tags        []string
	Body        io.Reader
}

// VersionInput describes a replacement payload for an existing document.
type VersionInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ListInput struct {
	WorkspaceID string
	FolderID    *string
	Tags        []string
	Search      string
	Page        int
	Limit       int
}

// MetadataUpdate carries optional changes. A nil field is left untouched; a
// FolderID pointing at "" moves the document to the workspace root.
type MetadataUpdate struct {
	Name     *string
	FolderID *string
	Tags     []string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items       []model.Document `json:"data"`
	Total       int              `json:"total"`
	Page        int              `json:"page"`
	Limit       int              `json:"limit"`
	TotalPages  int              `json:"total_pages"`
	HasNextPage bool             `json:"has_next_page"`
	HasPrevPage bool             `json:"has_prev_page"`
}

func newDocumentListResult(items []model.Document, total, page, limit int) *DocumentListResult {
	totalPages := (total + limit - 1) / limit
	return &DocumentListResult{
		Items:       items,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// DownloadLink is a time-limited URL for the current version of a document.
type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresIn int64     `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
	Filename  string    `json:"filename"`
}

// DocumentService defines the document lifecycle use cases. Every call acts on behalf
// of actorID; access and quota checks precede any side effect.
type DocumentService interface {
	// Upload writes the payload to the blob store, then admits the quota and creates the
	// document in one transaction. A failed transaction deletes the written blob.
	Upload(ctx context.Context, actorID string, in UploadInput) (*model.Document, error)

	// UploadVersion appends a version. Earlier versions stay resident and billed.
	UploadVersion(ctx context.Context, actorID, documentID string, in VersionInput) (*model.Document, error)

	Get(ctx context.Context, actorID, documentID string) (*model.Document, error)
	List(ctx context.Context, actorID string, in ListInput) (*DocumentListResult, error)
	Versions(ctx context.Context, actorID, documentID string) ([]model.DocumentVersion, error)
	UpdateMetadata(ctx context.Context, actorID, documentID string, upd MetadataUpdate) (*model.Document, error)

	// Delete soft-deletes the document and releases its whole footprint.
	Delete(ctx context.Context, actorID, documentID string) error

	// Restore re-admits the footprint and clears the deleted flag while blobs are still resident.
	Restore(ctx context.Context, actorID, documentID string) (*model.Document, error)

	DownloadURL(ctx context.Context, actorID, documentID string) (*DownloadLink, error)
}

// DocumentConfig holds the lifecycle policy.
type DocumentConfig struct {
	DownloadURLTTL time.Duration
	// DeleteRetention is how long blobs of a soft-deleted document stay restorable.
	// Zero purges them right after the delete commits.
	DeleteRetention time.Duration
	MaxUploadBytes  int64
}

type documentService struct {
	cfg     DocumentConfig
	store   repository.Store
	blobs   storage.Storage
	quota   *QuotaLedger
	access  *AccessResolver
	janitor *blobJanitor
	metrics *metrics.Lifecycle
	logger  *zap.Logger
	now     func() time.Time
}

// DocumentDeps groups the collaborators of the document service.
type DocumentDeps struct {
	Store   repository.Store
	Blobs   storage.Storage
	Quota   *QuotaLedger
	Access  *AccessResolver
	Metrics *metrics.Lifecycle
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(cfg DocumentConfig, deps DocumentDeps) DocumentService {
	if cfg.DownloadURLTTL <= 0 {
		cfg.DownloadURLTTL = DefaultDownloadURLTTL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewUnregistered()
	}
	if deps.Quota == nil {
		deps.Quota = NewQuotaLedger(deps.Store)
	}
	if deps.Access == nil {
		deps.Access = NewAccessResolver(deps.Store, deps.Now)
	}
	return &documentService{
		cfg:    cfg,
		store:  deps.Store,
		blobs:  deps.Blobs,
		quota:  deps.Quota,
		access: deps.Access,
		janitor: &blobJanitor{
			blobs:   deps.Blobs,
			store:   deps.Store,
			metrics: deps.Metrics,
			logger:  deps.Logger,
			now:     deps.Now,
		},
		metrics: deps.Metrics,
		logger:  deps.Logger,
		now:     deps.Now,
	}
}

func (s *documentService) Upload(ctx context.Context, actorID string, in UploadInput) (doc *model.Document, err error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Upload", trace.WithAttributes(
		attribute.String("workspace.id", in.WorkspaceID),
		attribute.Int64("document.size", in.Size),
	))
	defer func() { endSpan(span, err) }()

	if err := s.validatePayload(in.Body, in.Size); err != nil {
		return nil, err
	}
	name, err := validateName(in.Filename)
	if err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	ws, err := repos.Workspaces.FindByID(ctx, in.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !ws.HasMember(actorID) {
		return nil, fmt.Errorf("upload to workspace: %w", appErr.ErrForbidden)
	}
	folderID, err := s.resolveFolder(ctx, repos, ws.ID, in.FolderID)
	if err != nil {
		return nil, err
	}
	if err := s.quota.Check(ctx, ws.ID, in.Size); err != nil {
		s.countDenial("upload", err)
		s.metrics.Uploads.WithLabelValues(resultOf(err)).Inc()
		return nil, err
	}

	now := s.now().UTC()
	key := storage.GenerateKey(ws.ID, name, now)
	if err := s.putBlob(ctx, key, in.Body, in.Size, contentTypeOrDefault(in.ContentType)); err != nil {
		s.metrics.Uploads.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	doc = model.NewDocument(uuid.NewString(), actorID, ws.ID, name, contentTypeOrDefault(in.ContentType), key, in.Size, now)
	doc.FolderID = folderID
	doc.Tags = normalizeTags(in.Tags)

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := s.quota.Admit(ctx, repos, ws.ID, in.Size); err != nil {
			return err
		}
		return repos.Documents.Create(ctx, doc)
	})
	if err != nil {
		s.janitor.compensate(ctx, key)
		s.countDenial("upload", err)
		s.metrics.Uploads.WithLabelValues(resultOf(err)).Inc()
		return nil, err
	}

	s.metrics.Uploads.WithLabelValues(metrics.ResultOK).Inc()
	return doc, nil
}

func (s *documentService) UploadVersion(ctx context.Context, actorID, documentID string, in VersionInput) (doc *model.Document, err error) {
	ctx, span := tracer.Start(ctx, "DocumentService.UploadVersion", trace.WithAttributes(
		attribute.String("document.id", documentID),
		attribute.Int64("document.size", in.Size),
	))
	defer func() { endSpan(span, err) }()

	if err := s.validatePayload(in.Body, in.Size); err != nil {
		return nil, err
	}
	cur, err := s.findLive(ctx, s.store.Repos(), documentID)
	if err != nil {
		return nil, err
	}
	if !cur.IsOwner(actorID) {
		return nil, fmt.Errorf("upload version: %w", appErr.ErrForbidden)
	}
	if err := s.quota.Check(ctx, cur.WorkspaceID, in.Size); err != nil {
		s.countDenial("version", err)
		s.metrics.Versions.WithLabelValues(resultOf(err)).Inc()
		return nil, err
	}

	name := cur.OriginalName
	if n := strings.TrimSpace(in.Filename); n != "" {
		name = n
	}
	now := s.now().UTC()
	key := storage.GenerateKey(cur.WorkspaceID, name, now)
	if err := s.putBlob(ctx, key, in.Body, in.Size, contentTypeOrDefault(in.ContentType)); err != nil {
		s.metrics.Versions.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		locked, err := repos.Documents.FindByIDForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if locked.IsDeleted {
			return fmt.Errorf("document: %w", appErr.ErrNotFound)
		}
		if !locked.IsOwner(actorID) {
			return fmt.Errorf("upload version: %w", appErr.ErrForbidden)
		}
		if _, err := s.quota.Admit(ctx, repos, locked.WorkspaceID, in.Size); err != nil {
			return err
		}
		expected := locked.VersionNumber
		locked.AppendVersion(key, in.Size, now)
		if err := repos.Documents.AppendVersion(ctx, locked, expected); err != nil {
			return err
		}
		doc = locked
		return nil
	})
	if err != nil {
		s.janitor.compensate(ctx, key)
		s.countDenial("version", err)
		s.metrics.Versions.WithLabelValues(resultOf(err)).Inc()
		return nil, err
	}

	s.metrics.Versions.WithLabelValues(metrics.ResultOK).Inc()
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, actorID, documentID string) (*model.Document, error) {
	doc, err := s.findLive(ctx, s.store.Repos(), documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, doc, actorID, model.PermissionView); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, actorID string, in ListInput) (*DocumentListResult, error) {
	repos := s.store.Repos()
	ws, err := repos.Workspaces.FindByID(ctx, in.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !ws.HasMember(actorID) {
		return nil, fmt.Errorf("list workspace: %w", appErr.ErrForbidden)
	}

	page, limit := in.Page, in.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	res, err := repos.Documents.List(ctx, repository.DocumentQuery{
		WorkspaceID: ws.ID,
		FolderID:    in.FolderID,
		Tags:        normalizeTags(in.Tags),
		Search:      strings.TrimSpace(in.Search),
		Page:        repository.PageQuery{Limit: limit, Offset: (page - 1) * limit},
	})
	if err != nil {
		return nil, err
	}
	return newDocumentListResult(res.Items, res.Total, page, limit), nil
}

func (s *documentService) Versions(ctx context.Context, actorID, documentID string) ([]model.DocumentVersion, error) {
	doc, err := s.Get(ctx, actorID, documentID)
	if err != nil {
		return nil, err
	}
	return doc.Versions, nil
}

func (s *documentService) UpdateMetadata(ctx context.Context, actorID, documentID string, upd MetadataUpdate) (*model.Document, error) {
	var doc *model.Document
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		cur, err := s.findLiveForUpdate(ctx, repos, documentID)
		if err != nil {
			return err
		}
		if !cur.IsOwner(actorID) {
			return fmt.Errorf("update document: %w", appErr.ErrForbidden)
		}
		if upd.Name != nil {
			name, err := validateName(*upd.Name)
			if err != nil {
				return err
			}
			cur.OriginalName = name
		}
		if upd.FolderID != nil {
			folderID, err := s.resolveFolder(ctx, repos, cur.WorkspaceID, upd.FolderID)
			if err != nil {
				return err
			}
			cur.FolderID = folderID
		}
		if upd.Tags != nil {
			cur.Tags = normalizeTags(upd.Tags)
		}
		cur.UpdatedAt = s.now().UTC()
		if err := repos.Documents.UpdateMetadata(ctx, cur); err != nil {
			return err
		}
		doc = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, actorID, documentID string) (err error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Delete", trace.WithAttributes(
		attribute.String("document.id", documentID),
	))
	defer func() { endSpan(span, err) }()

	purgeNow := s.cfg.DeleteRetention <= 0
	var keys []string
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		doc, err := s.findLiveForUpdate(ctx, repos, documentID)
		if err != nil {
			return err
		}
		if !doc.IsOwner(actorID) {
			return fmt.Errorf("delete document: %w", appErr.ErrForbidden)
		}
		now := s.now().UTC()
		doc.MarkDeleted(now)
		if purgeNow {
			doc.BlobsPurgedAt = &now
		}
		if err := repos.Documents.SetDeleted(ctx, doc); err != nil {
			return err
		}
		if _, err := s.quota.Release(ctx, repos, doc.WorkspaceID, doc.Footprint()); err != nil {
			return err
		}
		keys = doc.BlobKeys()
		return nil
	})
	if err != nil {
		return err
	}

	if purgeNow {
		s.janitor.purge(ctx, keys)
	}
	return nil
}

func (s *documentService) Restore(ctx context.Context, actorID, documentID string) (*model.Document, error) {
	var doc *model.Document
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		cur, err := repos.Documents.FindByIDForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if !cur.IsOwner(actorID) {
			return fmt.Errorf("restore document: %w", appErr.ErrForbidden)
		}
		if !cur.IsDeleted {
			return fmt.Errorf("restore document: %w: not deleted", appErr.ErrConflict)
		}
		if !cur.Restorable() {
			return fmt.Errorf("restore document: %w: content already purged", appErr.ErrConflict)
		}
		if _, err := s.quota.Admit(ctx, repos, cur.WorkspaceID, cur.Footprint()); err != nil {
			return err
		}
		cur.ClearDeleted(s.now().UTC())
		if err := repos.Documents.SetDeleted(ctx, cur); err != nil {
			return err
		}
		doc = cur
		return nil
	})
	if err != nil {
		s.countDenial("restore", err)
		return nil, err
	}
	return doc, nil
}

func (s *documentService) DownloadURL(ctx context.Context, actorID, documentID string) (*DownloadLink, error) {
	doc, err := s.findLive(ctx, s.store.Repos(), documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, doc, actorID, model.PermissionDownload); err != nil {
		return nil, err
	}

	issued := s.now().UTC()
	url, err := s.blobs.PresignGet(ctx, doc.CurrentBlobKey, s.cfg.DownloadURLTTL)
	if err != nil {
		s.logger.Error("presign download url failed", zap.String("document_id", doc.ID), zap.Error(err))
		return nil, fmt.Errorf("issue download url: %w", appErr.ErrUpstreamStorage)
	}
	return &DownloadLink{
		URL:       url,
		ExpiresIn: int64(s.cfg.DownloadURLTTL / time.Second),
		ExpiresAt: issued.Add(s.cfg.DownloadURLTTL),
		Filename:  doc.OriginalName,
	}, nil
}

// findLive hides soft-deleted documents behind errors.ErrNotFound.
func (s *documentService) findLive(ctx context.Context, repos repository.Repositories, id string) (*model.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("document id: %w", appErr.ErrValidation)
	}
	doc, err := repos.Documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, fmt.Errorf("document: %w", appErr.ErrNotFound)
	}
	return doc, nil
}

func (s *documentService) findLiveForUpdate(ctx context.Context, repos repository.Repositories, id string) (*model.Document, error) {
	doc, err := repos.Documents.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, fmt.Errorf("document: %w", appErr.ErrNotFound)
	}
	return doc, nil
}

// resolveFolder returns nil for the workspace root and otherwise requires the
// folder to exist in workspaceID.
func (s *documentService) resolveFolder(ctx context.Context, repos repository.Repositories, workspaceID string, folderID *string) (*string, error) {
	if folderID == nil || *folderID == "" {
		return nil, nil
	}
	f, err := repos.Folders.FindByID(ctx, *folderID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, fmt.Errorf("folder does not exist: %w", appErr.ErrValidation)
		}
		return nil, err
	}
	if f.WorkspaceID != workspaceID {
		return nil, fmt.Errorf("folder belongs to another workspace: %w", appErr.ErrValidation)
	}
	id := f.ID
	return &id, nil
}

func (s *documentService) validatePayload(body io.Reader, size int64) error {
	if body == nil {
		return fmt.Errorf("payload is required: %w", appErr.ErrValidation)
	}
	if size < 0 {
		return fmt.Errorf("size must not be negative: %w", appErr.ErrValidation)
	}
	if s.cfg.MaxUploadBytes > 0 && size > s.cfg.MaxUploadBytes {
		return fmt.Errorf("file exceeds %d bytes: %w", s.cfg.MaxUploadBytes, appErr.ErrValidation)
	}
	return nil
}

// putBlob hides backend error text, which may carry keys, behind ErrUpstreamStorage.
func (s *documentService) putBlob(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.blobs.Put(ctx, key, body, storage.PutObjectOptions{Size: size, ContentType: contentType})
	if err != nil {
		s.logger.Warn("blob write failed", zap.String("blob_key", key), zap.Error(err))
		return fmt.Errorf("store content: %w", appErr.ErrUpstreamStorage)
	}
	return nil
}

func (s *documentService) countDenial(op string, err error) {
	if appErr.IsQuotaExceeded(err) {
		s.metrics.QuotaDenials.WithLabelValues(op).Inc()
	}
}

func resultOf(err error) string {
	if appErr.IsQuotaExceeded(err) {
		return metrics.ResultQuotaExceeded
	}
	return metrics.ResultError
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required: %w", appErr.ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("name longer than %d characters: %w", MaxNameLength, appErr.ErrValidation)
	}
	return name, nil
}

// normalizeTags trims, drops empties and de-duplicates while keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func contentTypeOrDefault(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errorCode(err))
	}
	span.End()
}

// errorCode names the taxonomy member of err for span status and logs.
func errorCode(err error) string {
	switch {
	case appErr.IsNotFound(err):
		return "not_found"
	case appErr.IsForbidden(err):
		return "forbidden"
	case appErr.IsQuotaExceeded(err):
		return "quota_exceeded"
	case appErr.IsConflict(err):
		return "conflict"
	case appErr.IsValidation(err):
		return "validation"
	case errors.Is(err, appErr.ErrUpstreamStorage):
		return "upstream_storage"
	}
	return "internal"
}
