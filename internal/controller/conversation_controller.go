package controller

import (
	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/internal/pkg/serverutils"
	"knowledge-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router, guards ...fiber.Handler)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	AppendMessage(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router, guards ...fiber.Handler) {
	h := r.Group("/conversation/v1")
	use(h, guards)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Post(":id/messages", c.AppendMessage)
}

func (c *conversationController) Create(ctx *fiber.Ctx) error {
	workspaceId, userId, err := identity(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateConversationRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.Create(ctx.UserContext(), workspaceId, userId, &req)
	if err != nil {
		return err
	}
	body := serverutils.SuccessResponse("Success create conversation", res)
	body.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(body)
}

func (c *conversationController) Show(ctx *fiber.Ctx) error {
	workspaceId, id, err := workspaceAndID(ctx)
	if err != nil {
		return err
	}

	res, err := c.conversationService.Show(ctx.UserContext(), workspaceId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *conversationController) AppendMessage(ctx *fiber.Ctx) error {
	workspaceId, id, err := workspaceAndID(ctx)
	if err != nil {
		return err
	}

	var req dto.AppendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.ConversationId = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.AppendMessage(ctx.UserContext(), workspaceId, &req)
	if err != nil {
		return err
	}
	body := serverutils.SuccessResponse("Success append message", res)
	body.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(body)
}
