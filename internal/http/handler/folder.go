package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

// CreateFolder godoc
// @Summary Create a folder in a workspace
// @Tags folders
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Workspace ID"
// @Param body body CreateFolderRequest true "Folder"
// @Success 201 {object} model.Folder
// @Router /workspaces/{id}/folders [post]
func CreateFolder(folderSvc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wsID, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req CreateFolderRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		f, err := folderSvc.Create(c.UserContext(), actorID(c), wsID, req.ParentID, req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	}
}

// ListFolders godoc
// @Summary Folders of a workspace
// @Tags folders
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Workspace ID"
// @Success 200 {array} model.Folder
// @Router /workspaces/{id}/folders [get]
func ListFolders(folderSvc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wsID, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		folders, err := folderSvc.List(c.UserContext(), actorID(c), wsID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": folders})
	}
}
