package controller

import (
	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/internal/pkg/serverutils"
	"knowledge-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router, guards ...fiber.Handler)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Similar(ctx *fiber.Ctx) error
	EmbeddingJob(ctx *fiber.Ctx) error
	Reembed(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router, guards ...fiber.Handler) {
	h := r.Group("/knowledge/v1")
	use(h, guards)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Post("search", c.Search)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Get(":id/similar", c.Similar)
	h.Get(":id/embedding-job", c.EmbeddingJob)
	h.Post(":id/reembed", c.Reembed)
}

func (c *knowledgeController) List(ctx *fiber.Ctx) error {
	workspaceId, err := serverutils.WorkspaceID(ctx)
	if err != nil {
		return err
	}

	var req dto.ListKnowledgeItemsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.List(ctx.UserContext(), workspaceId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list knowledge items", res))
}

func (c *knowledgeController) Create(ctx *fiber.Ctx) error {
	workspaceId, userId, err := identity(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateKnowledgeItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Create(ctx.UserContext(), workspaceId, userId, &req)
	if err != nil {
		return err
	}

	body := serverutils.SuccessResponse("Success create knowledge item", res)
	body.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(body)
}

func (c *knowledgeController) Show(ctx *fiber.Ctx) error {
	workspaceId, id, err := workspaceAndID(ctx)
	if err != nil {
		return err
	}

	res, err := c.knowledgeService.Show(ctx.UserContext(), workspaceId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show knowledge item", res))
}

func (c *knowledgeController) Update(ctx *fiber.Ctx) error {
	workspaceId, id, err := workspaceAndID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateKnowledgeItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Id = id

	res, err := c.knowledgeService.Update(ctx.UserContext(), workspaceId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update knowledge item", res))
}

func (c *knowledgeController) Delete(ctx *fiber.Ctx) error {
	workspaceId, id, err := workspaceAndID(ctx)
	if err != nil {
		return err
	}

	permanent := ctx.QueryBool("permanent", false)
	if err := c.knowledgeService.Delete(ctx.UserContext(), workspaceId, id, permanent); err != nil {
		return err
	}

	message := "Knowledge item archived"
	if permanent {
		message = "Knowledge item permanently deleted"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, fiber.Map{"id": id}))
}

func (c *knowledgeController) Search(ctx *fiber.Ctx) error {
	workspaceId, err := serverutils.WorkspaceID(ctx)
	if err != nil {
		return err
	}

	var req dto.SearchKnowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Search(ctx.UserContext(), workspaceId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search knowledge items", res))
}

func (c *knowledgeController) Similar(ctx *fiber.Ctx) error {
	workspaceId, id, err := workspaceAndID(ctx)
	if err != nil {
		return err
	}

	res, err := c.knowledgeService.Similar(ctx.UserContext(), workspaceId, id, ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success find similar knowledge items", res))
}

func (c *knowledgeController) EmbeddingJob(ctx *fiber.Ctx) error {
	workspaceId, id, err := workspaceAndID(ctx)
	if err != nil {
		return err
	}

	res, err := c.knowledgeService.GetEmbeddingJob(ctx.UserContext(), workspaceId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show embedding job", res))
}

func (c *knowledgeController) Reembed(ctx *fiber.Ctx) error {
	workspaceId, id, err := workspaceAndID(ctx)
	if err != nil {
		return err
	}

	res, err := c.knowledgeService.Reembed(ctx.UserContext(), workspaceId, id)
	if err != nil {
		return err
	}
	body := serverutils.SuccessResponse("Embedding job queued", res)
	body.Code = fiber.StatusAccepted
	return ctx.Status(fiber.StatusAccepted).JSON(body)
}

func use(r fiber.Router, guards []fiber.Handler) {
	for _, g := range guards {
		r.Use(g)
	}
}

func identity(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	workspaceId, err := serverutils.WorkspaceID(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return workspaceId, userId, nil
}

func workspaceAndID(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	workspaceId, err := serverutils.WorkspaceID(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return workspaceId, id, nil
}
