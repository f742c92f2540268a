package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/model"
	"docvault/internal/service"
)

// GrantAccess godoc
// @Summary Grant or replace a permission on a document
// @Tags shares
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Param body body GrantRequest true "Grant"
// @Success 200 {object} model.SharedAccess
// @Router /documents/{id}/shares [post]
func GrantAccess(shareSvc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req GrantRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		perm, err := model.ParsePermission(req.Permission)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "unknown permission")
		}
		grant, err := shareSvc.Grant(c.UserContext(), actorID(c), id, service.GrantInput{
			GranteeID:  req.GranteeID,
			Permission: perm,
			ExpiresAt:  req.ExpiresAt,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(grant)
	}
}

// RevokeAccess godoc
// @Summary Revoke a grant
// @Tags shares
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Param grantee path string true "Grantee id"
// @Success 204
// @Router /documents/{id}/shares/{grantee} [delete]
func RevokeAccess(shareSvc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := shareSvc.Revoke(c.UserContext(), actorID(c), id, c.Params("grantee")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListShares godoc
// @Summary Active grants on a document
// @Tags shares
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Param id path string true "Document ID"
// @Success 200 {array} model.SharedAccess
// @Router /documents/{id}/shares [get]
func ListShares(shareSvc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		grants, err := shareSvc.ListForDocument(c.UserContext(), actorID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": grants})
	}
}

// SharedWithMe godoc
// @Summary Active grants held by the caller
// @Tags shares
// @Produce json
// @Param X-User-ID header string true "Actor id"
// @Success 200 {array} model.SharedAccess
// @Router /shared-with-me [get]
func SharedWithMe(shareSvc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		grants, err := shareSvc.ListSharedWithMe(c.UserContext(), actorID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": grants})
	}
}
