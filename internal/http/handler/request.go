package handler

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type CreateWorkspaceRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	StorageLimit int64  `json:"storage_limit" validate:"gte=0"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,max=255"`
}

type CreateFolderRequest struct {
	Name     string  `json:"name" validate:"required,max=255,excludesall=/"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateDocumentRequest carries optional changes; folder_id "" moves the document to the root.
type UpdateDocumentRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=255"`
	FolderID *string  `json:"folder_id" validate:"omitempty,uuid"`
	Tags     []string `json:"tags" validate:"omitempty,max=50,dive,max=64"`
}

type GrantRequest struct {
	GranteeID  string     `json:"grantee_id" validate:"required,max=255"`
	Permission string     `json:"permission" validate:"required,oneof=VIEW DOWNLOAD EDIT view download edit"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type listQuery struct {
	Page     int    `query:"page" validate:"gte=0"`
	Limit    int    `query:"limit" validate:"gte=0"`
	FolderID string `query:"folder_id" validate:"omitempty,uuid"`
	Search   string `query:"q" validate:"max=255"`
}

// bindJSON parses and validates the request body into dst. When ok is false the
// error response has already been written and err is what the handler returns.
func bindJSON(c *fiber.Ctx, dst any) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
	}
	if err := validate.Struct(dst); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
	}
	return true, nil
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid request"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" failed "+fe.Tag())
	}
	return strings.Join(fields, "; ")
}

func actorID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.ActorLocalKey).(string)
	return id
}

// splitList parses a comma separated query or form value.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
