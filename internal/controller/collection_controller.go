package controller

import (
	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/internal/pkg/serverutils"
	"knowledge-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICollectionController interface {
	RegisterRoutes(r fiber.Router, guards ...fiber.Handler)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
}

type collectionController struct {
	collectionService service.ICollectionService
}

func NewCollectionController(collectionService service.ICollectionService) ICollectionController {
	return &collectionController{
		collectionService: collectionService,
	}
}

func (c *collectionController) RegisterRoutes(r fiber.Router, guards ...fiber.Handler) {
	h := r.Group("/collection/v1")
	use(h, guards)
	h.Get("", c.List)
	h.Post("", c.Create)
}

func (c *collectionController) List(ctx *fiber.Ctx) error {
	workspaceId, err := serverutils.WorkspaceID(ctx)
	if err != nil {
		return err
	}

	res, err := c.collectionService.List(ctx.UserContext(), workspaceId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list collections", res))
}

func (c *collectionController) Create(ctx *fiber.Ctx) error {
	workspaceId, userId, err := identity(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateCollectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.collectionService.Create(ctx.UserContext(), workspaceId, userId, &req)
	if err != nil {
		return err
	}
	body := serverutils.SuccessResponse("Success create collection", res)
	body.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(body)
}
