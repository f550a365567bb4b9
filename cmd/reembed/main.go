package main

import (
	"context"
	"flag"
	"log"
	"time"

	"knowledge-rag-be/internal/bootstrap"
	"knowledge-rag-be/internal/config"
	"knowledge-rag-be/internal/constant"
	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/pkg/logger"
	"knowledge-rag-be/internal/repository/scope"
	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"
	"knowledge-rag-be/internal/service"
	"knowledge-rag-be/pkg/database"
	"knowledge-rag-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Backfills vectors for ready items that never got one, and optionally
// retries items whose ingestion failed or whose job was lost with the queue.
// Jobs run in-process, one at a time.
func main() {
	workspace := flag.String("workspace", "", "restrict to one workspace id")
	limit := flag.Int("limit", 500, "maximum items to process")
	includeFailed := flag.Bool("include-failed", false, "also retry items in error status")
	stale := flag.Duration("stale", 0, "also retry processing items whose pending or running job is older than this")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.DefaultPoolConfig())
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	ctx := context.Background()
	provider, err := bootstrap.NewEmbeddingProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Embedding Provider: %v", err)
	}

	zapLog := logger.NewZapLogger(cfg.App.WorkerLogFilePath, cfg.IsProduction())
	defer zapLog.Sync()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger.NewWatermillAdapter(zapLog, "PubSub"))
	defer pubSub.Close()

	worker, err := service.NewEmbeddingWorker(
		pubSub,
		service.EmbeddingWorkerConfig{Topic: cfg.Rag.EmbedTopic, MaxAttempts: cfg.Rag.EmbedMaxAttempts},
		uowFactory,
		provider,
		events.NopPublisher{},
		zapLog,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Embedding Worker: %v", err)
	}
	defer worker.Close()

	specs := []specification.Specification{
		specification.Scoped(scope.OrderByCreatedAsc),
		specification.Limit{N: *limit},
	}
	if *workspace != "" {
		workspaceId, err := uuid.Parse(*workspace)
		if err != nil {
			log.Fatal("Invalid workspace ID:", err)
		}
		specs = append(specs, specification.ByWorkspaceID{WorkspaceID: workspaceId})
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	items, err := uow.KnowledgeItemRepository().FindAll(ctx, append(specs,
		specification.Scoped(scope.Ready),
		specification.MissingEmbedding{},
	)...)
	if err != nil {
		log.Fatalf("Failed to load items: %v", err)
	}
	if *includeFailed {
		failed, err := uow.KnowledgeItemRepository().FindAll(ctx, append(specs,
			specification.ByStatus{Status: constant.KnowledgeStatusError},
		)...)
		if err != nil {
			log.Fatalf("Failed to load failed items: %v", err)
		}
		items = append(items, failed...)
	}

	if *stale > 0 {
		stuck, err := staleItems(ctx, uowFactory, specs, *stale)
		if err != nil {
			log.Fatalf("Failed to load stale jobs: %v", err)
		}
		items = append(items, stuck...)
	}

	log.Printf("Found %d items to embed with %s", len(items), provider.Model())

	var succeeded, failed int
	for _, item := range items {
		job, err := createJob(ctx, uowFactory, item, cfg.Rag.EmbedMaxAttempts)
		if err != nil {
			log.Printf("[%s] failed to create job: %v", item.Id, err)
			failed++
			continue
		}

		for attempt := 1; attempt <= job.MaxAttempts; attempt++ {
			if err = worker.ProcessJob(ctx, job.Id); err == nil {
				break
			}
			log.Printf("[%s] %v", item.Id, err)
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		final, _ := uowFactory.NewUnitOfWork(ctx).EmbeddingJobRepository().FindOne(ctx, specification.ByID{ID: job.Id})
		if final != nil && final.Status == constant.EmbeddingJobStatusSucceeded {
			succeeded++
			log.Printf("[%s] embedded %q", item.Id, item.Title)
		} else {
			failed++
			log.Printf("[%s] not embedded %q", item.Id, item.Title)
		}
	}

	log.Printf("✅ Done: %d embedded, %d failed", succeeded, failed)
}

func createJob(ctx context.Context, uowFactory unitofwork.RepositoryFactory, item *entity.KnowledgeItem, maxAttempts int) (*entity.EmbeddingJob, error) {
	if maxAttempts <= 0 {
		maxAttempts = constant.EmbeddingJobDefaultMaxAttempts
	}
	job := &entity.EmbeddingJob{
		Id:              uuid.New(),
		KnowledgeItemId: item.Id,
		WorkspaceId:     item.WorkspaceId,
		Status:          constant.EmbeddingJobStatusPending,
		MaxAttempts:     maxAttempts,
		CreatedAt:       time.Now(),
	}
	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.EmbeddingJobRepository().Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// staleItems closes jobs that stopped reporting back and returns their items
// so they get a fresh job.
func staleItems(ctx context.Context, uowFactory unitofwork.RepositoryFactory, specs []specification.Specification, olderThan time.Duration) ([]*entity.KnowledgeItem, error) {
	uow := uowFactory.NewUnitOfWork(ctx)
	jobs, err := uow.EmbeddingJobRepository().FindAll(ctx, append(specs,
		specification.ByStatuses{Statuses: []string{constant.EmbeddingJobStatusPending, constant.EmbeddingJobStatusRunning}},
		specification.UpdatedBefore{Time: time.Now().Add(-olderThan)},
	)...)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	var items []*entity.KnowledgeItem
	for _, job := range jobs {
		now := time.Now()
		job.Status = constant.EmbeddingJobStatusFailed
		job.LastError = constant.ErrEmbeddingJobAbandoned.Error()
		job.FinishedAt = &now
		if err := uow.EmbeddingJobRepository().Update(ctx, job); err != nil {
			return nil, err
		}
		if seen[job.KnowledgeItemId] {
			continue
		}
		seen[job.KnowledgeItemId] = true

		item, err := uow.KnowledgeItemRepository().FindOne(ctx,
			specification.ByID{ID: job.KnowledgeItemId},
			specification.ByStatus{Status: constant.KnowledgeStatusProcessing},
		)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, item)
		}
	}
	return items, nil
}
