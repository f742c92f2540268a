package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/storage"
)

// ServeBlob streams an object of the in-memory blob store to holders of a valid
// signed URL. Real backends serve their own presigned URLs.
func ServeBlob(blobs *storage.Memory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, err := blobs.Verify(c.Params("*"), c.Query("expires"), c.Query("signature"))
		if err != nil {
			return writeError(c, fiber.StatusForbidden, "INVALID_SIGNATURE", "invalid or expired download url")
		}
		rc, info, err := blobs.Get(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
			}
			return writeServiceError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		return c.SendStream(rc, int(info.Size))
	}
}
