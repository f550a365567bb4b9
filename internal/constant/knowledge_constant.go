package constant

const (
	KnowledgeTypeDocument = "document"
	KnowledgeTypeURL      = "url"
	KnowledgeTypeText     = "text"
	KnowledgeTypeImage    = "image"

	KnowledgeStatusProcessing = "processing"
	KnowledgeStatusReady      = "ready"
	KnowledgeStatusError      = "error"

	// Extracted content is cut to this many characters before it is stored.
	KnowledgeContentMaxLength = 50000

	// Text sent to the embedding provider during ingestion.
	EmbeddingInputMaxLength = 8000
)

const (
	EmbeddingJobStatusPending   = "pending"
	EmbeddingJobStatusRunning   = "running"
	EmbeddingJobStatusSucceeded = "succeeded"
	EmbeddingJobStatusFailed    = "failed"

	EmbeddingJobDefaultMaxAttempts = 3
)

const (
	ConversationRoleUser      = "user"
	ConversationRoleAssistant = "assistant"

	WorkspaceRoleOwner  = "owner"
	WorkspaceRoleAdmin  = "admin"
	WorkspaceRoleMember = "member"
)

const (
	EventKnowledgeEmbeddingSucceeded = "KNOWLEDGE_EMBEDDING_SUCCEEDED"
	EventKnowledgeEmbeddingFailed    = "KNOWLEDGE_EMBEDDING_FAILED"
)

var KnowledgeTypes = []string{
	KnowledgeTypeDocument,
	KnowledgeTypeURL,
	KnowledgeTypeText,
	KnowledgeTypeImage,
}

func IsKnowledgeType(t string) bool {
	for _, k := range KnowledgeTypes {
		if k == t {
			return true
		}
	}
	return false
}
