package history

import (
	"context"

	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"
	"knowledge-rag-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

// Loader reads conversation turns for context building.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{uowFactory: uowFactory}
}

// LoadRecentTurns returns up to n messages, newest first. The conversation
// must belong to workspaceId; otherwise no turns are returned.
func (l *Loader) LoadRecentTurns(ctx context.Context, workspaceId, conversationId uuid.UUID, n int) ([]prompt.Turn, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.AiConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return []prompt.Turn{}, nil
	}

	messages, err := uow.AiMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: n},
	)
	if err != nil {
		return nil, err
	}

	turns := make([]prompt.Turn, len(messages))
	for i, m := range messages {
		turns[i] = prompt.Turn{Role: m.Role, Content: m.Content}
	}
	return turns, nil
}
