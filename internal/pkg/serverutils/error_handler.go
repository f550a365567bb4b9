package serverutils

import (
	"errors"
	"log"

	"knowledge-rag-be/internal/constant"

	"github.com/gofiber/fiber/v2"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{constant.ErrUnauthorized, fiber.StatusUnauthorized},
	{constant.ErrWorkspaceRequired, fiber.StatusBadRequest},
	{constant.ErrWorkspaceForbidden, fiber.StatusForbidden},
	{constant.ErrKnowledgeItemNotFound, fiber.StatusNotFound},
	{constant.ErrCollectionNotFound, fiber.StatusNotFound},
	{constant.ErrConversationNotFound, fiber.StatusNotFound},
	{constant.ErrEmbeddingJobNotFound, fiber.StatusNotFound},
	{constant.ErrEmptyTitle, fiber.StatusBadRequest},
	{constant.ErrInvalidKnowledgeType, fiber.StatusBadRequest},
	{constant.ErrEmptyQuery, fiber.StatusBadRequest},
	{constant.ErrInvalidMessageRole, fiber.StatusBadRequest},
	{constant.ErrNothingToEmbed, fiber.StatusBadRequest},
}

// ErrorHandlerMiddleware turns errors returned by handlers into JSON
// responses. Unknown errors become a generic 500 and are only logged.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			res := ErrorResponse(fiber.StatusBadRequest, "Invalid request")
			res.Errors = validationErr.Fields
			return ctx.Status(fiber.StatusBadRequest).JSON(res)
		}

		for _, s := range statusBySentinel {
			if errors.Is(err, s.err) {
				return ctx.Status(s.status).JSON(ErrorResponse(s.status, err.Error()))
			}
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
