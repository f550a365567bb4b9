package constant

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrWorkspaceRequired  = errors.New("workspaceId is required")
	ErrWorkspaceForbidden = errors.New("access denied to workspace")

	ErrKnowledgeItemNotFound = errors.New("knowledge item not found")
	ErrCollectionNotFound    = errors.New("collection not found or access denied")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrEmbeddingJobNotFound  = errors.New("embedding job not found")

	ErrEmptyTitle            = errors.New("title cannot be empty")
	ErrInvalidKnowledgeType  = errors.New("invalid knowledge item type")
	ErrEmptyQuery            = errors.New("query is required")
	ErrInvalidMessageRole    = errors.New("role must be user or assistant")
	ErrNothingToEmbed        = errors.New("knowledge item has no content to embed")
	ErrEmbeddingJobAbandoned = errors.New("embedding job stopped before finishing")
)
