package service

import (
	"context"
	"strings"
	"time"

	"knowledge-rag-be/internal/constant"
	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/repository/scope"
	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const defaultConversationTitle = "New conversation"

type IConversationService interface {
	Create(ctx context.Context, workspaceId, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	Show(ctx context.Context, workspaceId, id uuid.UUID) (*dto.ConversationResponse, error)
	AppendMessage(ctx context.Context, workspaceId uuid.UUID, req *dto.AppendMessageRequest) (*dto.MessageResponse, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory) IConversationService {
	return &conversationService{uowFactory: uowFactory}
}

func (s *conversationService) Create(ctx context.Context, workspaceId, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultConversationTitle
	}
	conversation := &entity.AiConversation{
		Id:          uuid.New(),
		WorkspaceId: workspaceId,
		UserId:      userId,
		Title:       title,
		CreatedAt:   time.Now(),
	}
	if err := uow.AiConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}

	return &dto.ConversationResponse{
		Id:        conversation.Id,
		Title:     conversation.Title,
		Messages:  []*dto.MessageResponse{},
		CreatedAt: conversation.CreatedAt,
	}, nil
}

func (s *conversationService) Show(ctx context.Context, workspaceId, id uuid.UUID) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.findConversation(ctx, uow, workspaceId, id)
	if err != nil {
		return nil, err
	}

	messages, err := uow.AiMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: id},
		specification.Scoped(scope.OrderByCreatedAsc),
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ConversationResponse{
		Id:        conversation.Id,
		Title:     conversation.Title,
		Messages:  make([]*dto.MessageResponse, 0, len(messages)),
		CreatedAt: conversation.CreatedAt,
	}
	for _, m := range messages {
		res.Messages = append(res.Messages, toMessageResponse(m))
	}
	return res, nil
}

func (s *conversationService) AppendMessage(ctx context.Context, workspaceId uuid.UUID, req *dto.AppendMessageRequest) (*dto.MessageResponse, error) {
	if req.Role != constant.ConversationRoleUser && req.Role != constant.ConversationRoleAssistant {
		return nil, constant.ErrInvalidMessageRole
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findConversation(ctx, uow, workspaceId, req.ConversationId); err != nil {
		return nil, err
	}

	message := &entity.AiMessage{
		Id:             uuid.New(),
		ConversationId: req.ConversationId,
		Role:           req.Role,
		Content:        req.Content,
		CreatedAt:      time.Now(),
	}
	if err := uow.AiMessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}
	return toMessageResponse(message), nil
}

func (s *conversationService) findConversation(ctx context.Context, uow unitofwork.UnitOfWork, workspaceId, id uuid.UUID) (*entity.AiConversation, error) {
	conversation, err := uow.AiConversationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, constant.ErrConversationNotFound
	}
	return conversation, nil
}

func toMessageResponse(m *entity.AiMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:        m.Id,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
