package service

import (
	"context"

	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

type IContextAssembler interface {
	GetRAGContext(ctx context.Context, query string, workspaceId uuid.UUID, conversationId *uuid.UUID) (*prompt.RAGContext, error)
}

// IRagService builds the grounding context handed to a text generation call.
type IRagService interface {
	GetContext(ctx context.Context, workspaceId uuid.UUID, req *dto.RAGContextRequest) (*dto.RAGContextResponse, error)
}

type ragService struct {
	assembler IContextAssembler
}

func NewRagService(assembler IContextAssembler) IRagService {
	return &ragService{assembler: assembler}
}

func (s *ragService) GetContext(ctx context.Context, workspaceId uuid.UUID, req *dto.RAGContextRequest) (*dto.RAGContextResponse, error) {
	rc, err := s.assembler.GetRAGContext(ctx, req.Query, workspaceId, req.ConversationId)
	if err != nil {
		return nil, err
	}
	return &dto.RAGContextResponse{
		Sources: toSearchResultResponses(rc.Sources),
		Summary: rc.Summary,
	}, nil
}
