package controller

import (
	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/internal/pkg/serverutils"
	"knowledge-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRagController interface {
	RegisterRoutes(r fiber.Router, guards ...fiber.Handler)
	Context(ctx *fiber.Ctx) error
}

type ragController struct {
	ragService service.IRagService
}

func NewRagController(ragService service.IRagService) IRagController {
	return &ragController{
		ragService: ragService,
	}
}

func (c *ragController) RegisterRoutes(r fiber.Router, guards ...fiber.Handler) {
	h := r.Group("/rag/v1")
	use(h, guards)
	h.Post("context", c.Context)
}

func (c *ragController) Context(ctx *fiber.Ctx) error {
	workspaceId, err := serverutils.WorkspaceID(ctx)
	if err != nil {
		return err
	}

	var req dto.RAGContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ragService.GetContext(ctx.UserContext(), workspaceId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success build context", res))
}
