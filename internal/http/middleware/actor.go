package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docvault/internal/logging"
)

const (
	// ActorHeader carries the user id authenticated by the upstream gateway.
	ActorHeader = "X-User-ID"
	// ActorLocalKey is the key used to store the actor id in Fiber's context locals.
	ActorLocalKey = "actor_id"
)

// RequireActor rejects requests without an actor id with 401 and otherwise stores
// it in locals and adds it to the request logger.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(ActorHeader))
		if id == "" {
			return fiber.ErrUnauthorized
		}
		c.Locals(ActorLocalKey, id)

		ctx := c.UserContext()
		c.SetUserContext(logging.WithContext(ctx, logging.FromContext(ctx).With(zap.String("actor_id", id))))
		return c.Next()
	}
}
