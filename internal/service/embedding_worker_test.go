package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"knowledge-rag-be/internal/constant"
	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "EMBED_KNOWLEDGE_ITEM_TEST"

type workerFixture struct {
	store    *memoryStore
	embedder *stubEmbedder
	events   *recordingEvents
	pubSub   *gochannel.GoChannel
	worker   IEmbeddingWorker
}

func newWorkerFixture(t *testing.T, maxAttempts int) *workerFixture {
	f := &workerFixture{
		store:    newMemoryStore(),
		embedder: &stubEmbedder{},
		events:   &recordingEvents{},
		pubSub:   gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
	}
	w, err := NewEmbeddingWorker(
		f.pubSub,
		EmbeddingWorkerConfig{Topic: testTopic, MaxAttempts: maxAttempts, RetryInterval: time.Millisecond},
		&fakeFactory{f.store},
		f.embedder,
		f.events,
		logger.NewNopLogger(),
	)
	require.NoError(t, err)
	f.worker = w
	return f
}

func (f *workerFixture) seedJob(content string, maxAttempts int) (*entity.KnowledgeItem, *entity.EmbeddingJob) {
	item := &entity.KnowledgeItem{
		Id:          uuid.New(),
		WorkspaceId: uuid.New(),
		Title:       "Runbook",
		Type:        "document",
		Status:      constant.KnowledgeStatusProcessing,
		Content:     content,
		CreatedAt:   time.Now(),
	}
	job := &entity.EmbeddingJob{
		Id:              uuid.New(),
		KnowledgeItemId: item.Id,
		WorkspaceId:     item.WorkspaceId,
		Status:          constant.EmbeddingJobStatusPending,
		MaxAttempts:     maxAttempts,
		CreatedAt:       time.Now(),
	}
	f.store.items[item.Id] = item
	f.store.jobs[job.Id] = job
	return item, job
}

func TestEmbeddingWorker_Success(t *testing.T) {
	f := newWorkerFixture(t, 3)
	item, job := f.seedJob("Restart the service.", 3)

	require.NoError(t, f.worker.ProcessJob(context.Background(), job.Id))

	gotItem := f.store.item(item.Id)
	assert.Equal(t, constant.KnowledgeStatusReady, gotItem.Status)
	assert.NotNil(t, gotItem.ProcessedAt)
	assert.Equal(t, []float32{0.6, 0.8}, gotItem.Embedding)
	assert.Equal(t, "stub-embed", gotItem.EmbeddingsModel)

	gotJob := f.store.job(job.Id)
	assert.Equal(t, constant.EmbeddingJobStatusSucceeded, gotJob.Status)
	assert.Equal(t, 1, gotJob.Attempts)
	assert.NotNil(t, gotJob.FinishedAt)

	assert.Equal(t, []string{"Runbook\n\nRestart the service."}, f.embedder.texts)
	assert.Equal(t, []string{constant.EventKnowledgeEmbeddingSucceeded}, f.events.types())

	// A finished job is not processed twice.
	require.NoError(t, f.worker.ProcessJob(context.Background(), job.Id))
	assert.Equal(t, 1, f.embedder.calls)
}

func TestEmbeddingWorker_RetriesThenFails(t *testing.T) {
	f := newWorkerFixture(t, 2)
	f.embedder.err = errors.New("upstream 503")
	item, job := f.seedJob("body", 2)
	ctx := context.Background()

	err := f.worker.ProcessJob(ctx, job.Id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempt 1/2")
	assert.Equal(t, constant.EmbeddingJobStatusPending, f.store.job(job.Id).Status)
	assert.Equal(t, constant.KnowledgeStatusProcessing, f.store.item(item.Id).Status)
	assert.Empty(t, f.events.types())

	require.NoError(t, f.worker.ProcessJob(ctx, job.Id))

	gotJob := f.store.job(job.Id)
	assert.Equal(t, constant.EmbeddingJobStatusFailed, gotJob.Status)
	assert.Equal(t, 2, gotJob.Attempts)
	assert.Equal(t, "upstream 503", gotJob.LastError)

	gotItem := f.store.item(item.Id)
	assert.Equal(t, constant.KnowledgeStatusError, gotItem.Status)
	assert.Contains(t, gotItem.ProcessingError, "upstream 503")
	assert.Nil(t, gotItem.Embedding)
	assert.Equal(t, []string{constant.EventKnowledgeEmbeddingFailed}, f.events.types())
}

func TestEmbeddingWorker_PermanentFailures(t *testing.T) {
	t.Run("item deleted", func(t *testing.T) {
		f := newWorkerFixture(t, 3)
		item, job := f.seedJob("body", 3)
		delete(f.store.items, item.Id)

		require.NoError(t, f.worker.ProcessJob(context.Background(), job.Id))
		assert.Equal(t, constant.EmbeddingJobStatusFailed, f.store.job(job.Id).Status)
		assert.Zero(t, f.embedder.calls)
	})

	t.Run("unknown job", func(t *testing.T) {
		f := newWorkerFixture(t, 3)
		assert.NoError(t, f.worker.ProcessJob(context.Background(), uuid.New()))
		assert.Empty(t, f.events.types())
	})
}

func TestEmbeddingWorker_ConsumesFromTopic(t *testing.T) {
	f := newWorkerFixture(t, 3)
	item, job := f.seedJob("Escalation policy.", 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = f.worker.Run(ctx) }()
	defer f.worker.Close()

	payload, err := json.Marshal(dto.EmbedKnowledgeItemMessage{JobId: job.Id})
	require.NoError(t, err)

	// The router subscribes asynchronously; keep publishing until it has picked
	// the job up. Repeats are ignored once the job is finished.
	publisher := NewPublisherService(testTopic, f.pubSub)
	require.Eventually(t, func() bool {
		_ = publisher.Publish(ctx, payload)
		return f.store.item(item.Id).Status == constant.KnowledgeStatusReady
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, constant.EmbeddingJobStatusSucceeded, f.store.job(job.Id).Status)
}
