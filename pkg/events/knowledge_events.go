package events

import (
	"time"

	"github.com/google/uuid"
)

// EmbeddingOutcome describes the terminal state of one embedding job.
type EmbeddingOutcome struct {
	JobId           uuid.UUID
	KnowledgeItemId uuid.UUID
	WorkspaceId     uuid.UUID
	Model           string
	Attempts        int
	Error           string
}

func NewKnowledgeEmbeddingEvent(eventType string, o EmbeddingOutcome) BaseEvent {
	data := map[string]interface{}{
		"job_id":            o.JobId.String(),
		"knowledge_item_id": o.KnowledgeItemId.String(),
		"workspace_id":      o.WorkspaceId.String(),
		"attempts":          o.Attempts,
	}
	if o.Model != "" {
		data["model"] = o.Model
	}
	if o.Error != "" {
		data["error"] = o.Error
	}

	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
