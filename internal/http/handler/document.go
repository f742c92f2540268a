package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/service"
)

// validID returns the named route param and whether it is a UUID.
func validID(c *fiber.Ctx, param string) (string, bool) {
	id := c.Params(param)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments godoc
// @Summary List documents of a workspace
// @Tags documents
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Workspace ID"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size, at most 100"
// @Param folder_id query string false "Folder ID"
// @Param tags query string false "Comma separated tags, any match"
// @Param q query string false "Case-insensitive search over name and tags"
// @Success 200 {object} service.DocumentListResult
// @Router /workspaces/{id}/documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wsID, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var q listQuery
		if err := c.QueryParser(&q); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters")
		}
		if err := validate.Struct(q); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		res, err := docSvc.List(c.UserContext(), actorID(c), service.ListInput{
			WorkspaceID: wsID,
			FolderID:    optional(q.FolderID),
			Tags:        splitList(c.Query("tags")),
			Search:      q.Search,
			Page:        q.Page,
			Limit:       q.Limit,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument godoc
// @Summary Upload a document (multipart/form-data, field name: file)
// @Tags documents
// @Accept mpfd
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Workspace ID"
// @Param file formData file true "Document content"
// @Param folder_id formData string false "Folder ID"
// @Param tags formData string false "Comma separated tags"
// @Success 201 {object} model.Document
// @Failure 413 {object} errorPayload
// @Router /workspaces/{id}/documents [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wsID, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := docSvc.Upload(c.UserContext(), actorID(c), service.UploadInput{
			WorkspaceID: wsID,
			FolderID:    optional(c.FormValue("folder_id")),
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Tags:        splitList(c.FormValue("tags")),
			Body:        f,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UploadVersion godoc
// @Summary Upload a new version of a document
// @Tags documents
// @Accept mpfd
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Param file formData file true "New content"
// @Success 201 {object} model.Document
// @Router /documents/{id}/versions [post]
func UploadVersion(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := docSvc.UploadVersion(c.UserContext(), actorID(c), id, service.VersionInput{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListVersions godoc
// @Summary Version history of a document, oldest first
// @Tags documents
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Success 200 {array} model.DocumentVersion
// @Router /documents/{id}/versions [get]
func ListVersions(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		versions, err := docSvc.Versions(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": versions})
	}
}

// GetDocument godoc
// @Summary Get document metadata
// @Tags documents
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument godoc
// @Summary Rename, move or retag a document
// @Tags documents
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Param body body UpdateDocumentRequest true "Changes"
// @Success 200 {object} model.Document
// @Router /documents/{id} [patch]
func UpdateDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req UpdateDocumentRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		doc, err := docSvc.UpdateMetadata(c.UserContext(), actorID(c), id, service.MetadataUpdate{
			Name:     req.Name,
			FolderID: req.FolderID,
			Tags:     req.Tags,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument godoc
// @Summary Soft-delete a document and release its storage
// @Tags documents
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Success 204
// @Router /documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), actorID(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RestoreDocument godoc
// @Summary Restore a soft-deleted document
// @Tags documents
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 409 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /documents/{id}/restore [post]
func RestoreDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Restore(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument godoc
// @Summary Issue a time-limited download URL for the current version
// @Tags documents
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Success 200 {object} service.DownloadLink
// @Failure 502 {object} errorPayload
// @Router /documents/{id}/download [get]
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		link, err := docSvc.DownloadURL(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(link)
	}
}
