package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewKnowledgeEmbeddingEvent(t *testing.T) {
	o := EmbeddingOutcome{
		JobId:           uuid.New(),
		KnowledgeItemId: uuid.New(),
		WorkspaceId:     uuid.New(),
		Attempts:        3,
		Error:           "provider down",
	}

	e := NewKnowledgeEmbeddingEvent("KNOWLEDGE_EMBEDDING_FAILED", o)

	assert.Equal(t, "KNOWLEDGE_EMBEDDING_FAILED", e.EventType())
	assert.Equal(t, o.KnowledgeItemId.String(), e.Payload()["knowledge_item_id"])
	assert.Equal(t, 3, e.Payload()["attempts"])
	assert.Equal(t, "provider down", e.Payload()["error"])
	assert.NotContains(t, e.Payload(), "model")
	assert.False(t, e.Timestamp().IsZero())

	assert.NoError(t, NopPublisher{}.Publish(context.Background(), e))
}
