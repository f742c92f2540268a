package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docvault/internal/http/middleware"
	"docvault/internal/logging"
	appErr "docvault/internal/pkg/errors"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates the error taxonomy into a response. Messages of
// caller-correctable errors are passed through; anything else is logged and hidden.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case appErr.IsValidation(err):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case appErr.IsNotFound(err):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case appErr.IsForbidden(err):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "access denied")
	case appErr.IsQuotaExceeded(err):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "QUOTA_EXCEEDED", err.Error())
	case appErr.IsConflict(err):
		return writeError(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, appErr.ErrUpstreamStorage):
		logging.FromContext(c.UserContext()).Error("upstream storage failure", zap.Error(err))
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_STORAGE", "storage backend unavailable")
	}
	logging.FromContext(c.UserContext()).Error("request failed", zap.Error(err))
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "missing actor identity")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			logging.FromContext(c.UserContext()).Error("unhandled error", zap.Error(err))
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
