package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

// CreateWorkspace godoc
// @Summary Create a workspace owned by the caller
// @Tags workspaces
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param body body CreateWorkspaceRequest true "Workspace"
// @Success 201 {object} model.Workspace
// @Router /workspaces [post]
func CreateWorkspace(wsSvc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateWorkspaceRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		ws, err := wsSvc.Create(c.UserContext(), actorID(c), req.Name, req.StorageLimit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ws)
	}
}

// GetWorkspace godoc
// @Summary Get a workspace
// @Tags workspaces
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Workspace ID"
// @Success 200 {object} model.Workspace
// @Router /workspaces/{id} [get]
func GetWorkspace(wsSvc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		ws, err := wsSvc.Get(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(ws)
	}
}

// AddMember godoc
// @Summary Add a member to a workspace (owner only)
// @Tags workspaces
// @Accept json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Workspace ID"
// @Param body body AddMemberRequest true "Member"
// @Success 204
// @Router /workspaces/{id}/members [post]
func AddMember(wsSvc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req AddMemberRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		if err := wsSvc.AddMember(c.UserContext(), actorID(c), id, req.UserID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// WorkspaceUsage godoc
// @Summary Storage usage of a workspace
// @Tags workspaces
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Workspace ID"
// @Success 200 {object} model.QuotaUsage
// @Router /workspaces/{id}/usage [get]
func WorkspaceUsage(wsSvc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		usage, err := wsSvc.Usage(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(usage)
	}
}
