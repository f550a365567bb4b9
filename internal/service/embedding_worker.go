package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"knowledge-rag-be/internal/constant"
	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/pkg/logger"
	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"
	"knowledge-rag-be/pkg/embedding"
	"knowledge-rag-be/pkg/events"
	"knowledge-rag-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
)

const workerLogScope = "EmbeddingWorker"

var errItemGone = errors.New("knowledge item no longer exists")

// IEmbeddingWorker consumes embedding jobs from the job topic.
type IEmbeddingWorker interface {
	Run(ctx context.Context) error
	// Running is closed once the worker is subscribed to the job topic.
	Running() chan struct{}
	Close() error
	ProcessJob(ctx context.Context, jobId uuid.UUID) error
}

type embeddingWorker struct {
	router     *message.Router
	uowFactory unitofwork.RepositoryFactory
	provider   embedding.Provider
	events     events.Publisher
	logger     logger.ILogger
}

type EmbeddingWorkerConfig struct {
	Topic       string
	MaxAttempts int
	// RetryInterval is the pause before an in-process retry.
	RetryInterval time.Duration
}

func NewEmbeddingWorker(
	subscriber message.Subscriber,
	cfg EmbeddingWorkerConfig,
	uowFactory unitofwork.RepositoryFactory,
	provider embedding.Provider,
	eventPublisher events.Publisher,
	log logger.ILogger,
) (IEmbeddingWorker, error) {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	w := &embeddingWorker{
		uowFactory: uowFactory,
		provider:   provider,
		events:     eventPublisher,
		logger:     log,
	}

	wmLogger := logger.NewWatermillAdapter(log, workerLogScope)
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, err
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = constant.EmbeddingJobDefaultMaxAttempts
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = time.Second
	}

	// Attempts are counted on the job row, so the retry budget matches it and
	// the handler acks once the job is exhausted.
	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      maxAttempts - 1,
			InitialInterval: interval,
			Multiplier:      2,
			Logger:          wmLogger,
		}.Middleware,
	)
	router.AddNoPublisherHandler("embed_knowledge_item", cfg.Topic, subscriber, w.handle)

	w.router = router
	return w, nil
}

func (w *embeddingWorker) Run(ctx context.Context) error {
	return w.router.Run(ctx)
}

func (w *embeddingWorker) Running() chan struct{} {
	return w.router.Running()
}

func (w *embeddingWorker) Close() error {
	return w.router.Close()
}

func (w *embeddingWorker) handle(msg *message.Message) error {
	var payload dto.EmbedKnowledgeItemMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		w.logger.Error(workerLogScope, "Dropping malformed job message", map[string]interface{}{
			"message_uuid": msg.UUID,
			"error":        err.Error(),
		})
		return nil
	}
	return w.ProcessJob(msg.Context(), payload.JobId)
}

// ProcessJob runs one attempt of a job. It returns an error only when the job
// should be retried.
func (w *embeddingWorker) ProcessJob(ctx context.Context, jobId uuid.UUID) error {
	uow := w.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.EmbeddingJobRepository().FindOne(ctx, specification.ByID{ID: jobId})
	if err != nil {
		return err
	}
	if job == nil {
		w.logger.Warn(workerLogScope, "Job not found", map[string]interface{}{"job_id": jobId.String()})
		return nil
	}
	if job.Status == constant.EmbeddingJobStatusSucceeded || job.Status == constant.EmbeddingJobStatusFailed {
		return nil
	}

	item, err := uow.KnowledgeItemRepository().FindOne(ctx,
		specification.ByID{ID: job.KnowledgeItemId},
		specification.ByWorkspaceID{WorkspaceID: job.WorkspaceId},
	)
	if err != nil {
		return err
	}

	now := time.Now()
	job.Status = constant.EmbeddingJobStatusRunning
	job.Attempts++
	if job.StartedAt == nil {
		job.StartedAt = &now
	}
	if err := uow.EmbeddingJobRepository().Update(ctx, job); err != nil {
		return err
	}

	if item == nil {
		return w.fail(ctx, uow, job, nil, errItemGone, true)
	}

	text := utils.PrepareEmbeddingText(item.Title, item.Content, constant.EmbeddingInputMaxLength)
	if text == "" {
		return w.fail(ctx, uow, job, item, constant.ErrNothingToEmbed, true)
	}

	vector, err := embedding.EmbedQuery(ctx, w.provider, text)
	if err != nil {
		return w.fail(ctx, uow, job, item, err, false)
	}

	return w.succeed(ctx, uow, job, item, vector)
}

func (w *embeddingWorker) succeed(ctx context.Context, uow unitofwork.UnitOfWork, job *entity.EmbeddingJob, item *entity.KnowledgeItem, vector []float32) error {
	now := time.Now()
	model := w.provider.Model()

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.KnowledgeItemRepository().UpdateEmbedding(ctx, item.Id, vector, model); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.KnowledgeItemRepository().UpdateStatus(ctx, item.Id, constant.KnowledgeStatusReady, "", &now); err != nil {
		uow.Rollback()
		return err
	}
	job.Status = constant.EmbeddingJobStatusSucceeded
	job.LastError = ""
	job.FinishedAt = &now
	if err := uow.EmbeddingJobRepository().Update(ctx, job); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	w.logger.Info(workerLogScope, "Knowledge item embedded", map[string]interface{}{
		"job_id":            job.Id.String(),
		"knowledge_item_id": item.Id.String(),
		"model":             model,
		"dimension":         len(vector),
		"attempts":          job.Attempts,
	})
	w.publish(ctx, constant.EventKnowledgeEmbeddingSucceeded, job, model)
	return nil
}

// fail records a failed attempt. Once the job is exhausted, or the failure is
// permanent, the job and its item are marked failed and the message is acked.
func (w *embeddingWorker) fail(ctx context.Context, uow unitofwork.UnitOfWork, job *entity.EmbeddingJob, item *entity.KnowledgeItem, cause error, permanent bool) error {
	job.LastError = cause.Error()

	if !permanent && !job.Exhausted() {
		job.Status = constant.EmbeddingJobStatusPending
		if err := uow.EmbeddingJobRepository().Update(ctx, job); err != nil {
			return err
		}
		w.logger.Warn(workerLogScope, "Embedding attempt failed", map[string]interface{}{
			"job_id":   job.Id.String(),
			"attempts": job.Attempts,
			"error":    cause.Error(),
		})
		return fmt.Errorf("embedding attempt %d/%d failed: %w", job.Attempts, job.MaxAttempts, cause)
	}

	now := time.Now()
	job.Status = constant.EmbeddingJobStatusFailed
	job.FinishedAt = &now

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.EmbeddingJobRepository().Update(ctx, job); err != nil {
		uow.Rollback()
		return err
	}
	if item != nil {
		msg := "embedding generation failed: " + cause.Error()
		if err := uow.KnowledgeItemRepository().UpdateStatus(ctx, item.Id, constant.KnowledgeStatusError, msg, nil); err != nil {
			uow.Rollback()
			return err
		}
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	w.logger.Error(workerLogScope, "Embedding job failed", map[string]interface{}{
		"job_id":            job.Id.String(),
		"knowledge_item_id": job.KnowledgeItemId.String(),
		"attempts":          job.Attempts,
		"error":             cause.Error(),
	})
	w.publish(ctx, constant.EventKnowledgeEmbeddingFailed, job, "")
	return nil
}

func (w *embeddingWorker) publish(ctx context.Context, eventType string, job *entity.EmbeddingJob, model string) {
	evt := events.NewKnowledgeEmbeddingEvent(eventType, events.EmbeddingOutcome{
		JobId:           job.Id,
		KnowledgeItemId: job.KnowledgeItemId,
		WorkspaceId:     job.WorkspaceId,
		Model:           model,
		Attempts:        job.Attempts,
		Error:           job.LastError,
	})
	if err := w.events.Publish(ctx, evt); err != nil {
		w.logger.Warn(workerLogScope, "Failed to publish embedding event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
