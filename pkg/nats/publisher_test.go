package nats

import (
	"encoding/json"
	"testing"
	"time"

	"knowledge-rag-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAndSubject(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := events.BaseEvent{
		Type:       "KNOWLEDGE_EMBEDDING_SUCCEEDED",
		Data:       map[string]interface{}{"job_id": "j1"},
		OccurredAt: at,
	}

	assert.Equal(t, "events.KNOWLEDGE_EMBEDDING_SUCCEEDED", Subject(e))

	raw, err := Encode(e)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "KNOWLEDGE_EMBEDDING_SUCCEEDED", decoded["type"])
	assert.Equal(t, "2025-03-01T12:00:00Z", decoded["occurred_at"])
	assert.Equal(t, map[string]interface{}{"job_id": "j1"}, decoded["data"])
}
