package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"knowledge-rag-be/internal/constant"
	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/pkg/logger"
	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"
	"knowledge-rag-be/pkg/database"
	"knowledge-rag-be/pkg/rag/search"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixedProvider struct {
	vector []float32
}

func (p fixedProvider) Model() string { return "integration-model" }

func (p fixedProvider) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = p.vector
	}
	return out, nil
}

// Expects a database migrated with cmd/migrate.
func connect(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, database.DefaultPoolConfig())
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	return gormDB
}

func seedItem(t *testing.T, uow unitofwork.UnitOfWork, workspaceId uuid.UUID, title string, vector []float32) *entity.KnowledgeItem {
	t.Helper()
	return seedItemAt(t, uow, workspaceId, title, vector, time.Now())
}

func seedItemAt(t *testing.T, uow unitofwork.UnitOfWork, workspaceId uuid.UUID, title string, vector []float32, createdAt time.Time) *entity.KnowledgeItem {
	t.Helper()
	ctx := context.Background()
	item := &entity.KnowledgeItem{
		Id:          uuid.New(),
		WorkspaceId: workspaceId,
		CreatedBy:   uuid.New(),
		Title:       title,
		Type:        constant.KnowledgeTypeText,
		Status:      constant.KnowledgeStatusProcessing,
		Content:     title + ". Refunds are issued within fourteen days.",
		Tags:        []string{"billing"},
		CreatedAt:   createdAt,
	}
	require.NoError(t, uow.KnowledgeItemRepository().Create(ctx, item))
	require.NoError(t, uow.KnowledgeItemRepository().UpdateEmbedding(ctx, item.Id, vector, "integration-model"))
	now := time.Now()
	require.NoError(t, uow.KnowledgeItemRepository().UpdateStatus(ctx, item.Id, constant.KnowledgeStatusReady, "", &now))
	t.Cleanup(func() {
		_ = uow.KnowledgeItemRepository().Delete(context.Background(), workspaceId, item.Id)
	})
	return item
}

func TestGormKnowledgeRetrieval(t *testing.T) {
	gormDB := connect(t)
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())
	ctx := context.Background()

	workspaceId := uuid.New()
	otherWorkspace := uuid.New()

	near := seedItem(t, uow, workspaceId, "Refund policy", []float32{1, 0, 0})
	far := seedItem(t, uow, workspaceId, "Office plants", []float32{0, 1, 0})
	neighbour := seedItem(t, uow, workspaceId, "Refund exceptions", []float32{0.9, 0.1, 0})
	foreign := seedItem(t, uow, otherWorkspace, "Refund policy copy", []float32{1, 0, 0})

	t.Run("Round trips vectors and tags", func(t *testing.T) {
		got, err := uow.KnowledgeItemRepository().FindOne(ctx, specification.ByID{ID: near.Id})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, constant.KnowledgeStatusReady, got.Status)
		assert.Equal(t, []float32{1, 0, 0}, got.Embedding)
		assert.Equal(t, []string{"billing"}, got.Tags)
		assert.NotNil(t, got.ProcessedAt)
	})

	strategies := []search.Strategy{search.StrategyOverfetch, search.StrategyFull, search.StrategyPgvector}
	for _, strategy := range strategies {
		t.Run("Search "+string(strategy), func(t *testing.T) {
			retriever := search.NewRetriever(
				fixedProvider{vector: []float32{1, 0, 0}},
				search.NewGormStore(uowFactory),
				search.Config{Strategy: strategy},
				logger.NewNopLogger(),
			)

			results, err := retriever.SearchDocuments(ctx, search.SearchParams{
				Query:       "refunds",
				WorkspaceId: workspaceId,
				Filters:     search.Filters{Tags: []string{"billing"}, Types: []string{constant.KnowledgeTypeText}},
			})
			require.NoError(t, err)
			require.NotEmpty(t, results)
			assert.Equal(t, near.Id, results[0].Item.Id)
			assert.InDelta(t, 1.0, results[0].RelevanceScore, 1e-6)
			assert.Contains(t, results[0].Snippet, "Refunds")
		})
	}

	t.Run("Similar excludes source and other workspaces", func(t *testing.T) {
		retriever := search.NewRetriever(fixedProvider{}, search.NewGormStore(uowFactory), search.DefaultConfig(), logger.NewNopLogger())

		items, err := retriever.FindSimilarDocuments(ctx, near.Id, workspaceId, 5)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, neighbour.Id, items[0].Id)
		assert.NotEqual(t, foreign.Id, items[0].Id)
		assert.NotEqual(t, far.Id, items[0].Id)
	})

	t.Run("Pgvector candidates are the nearest, not the newest", func(t *testing.T) {
		rankedWorkspace := uuid.New()
		base := time.Now().Add(-time.Hour)
		oldest := seedItemAt(t, uow, rankedWorkspace, "Refund policy archive", []float32{1, 0, 0}, base)
		for i := 1; i <= 4; i++ {
			seedItemAt(t, uow, rankedWorkspace, "Unrelated note", []float32{0, 0, 1}, base.Add(time.Duration(i)*time.Minute))
		}

		limit := 1
		threshold := 0.9
		for _, tc := range []struct {
			strategy search.Strategy
			found    bool
		}{
			{search.StrategyPgvector, true},
			// The newest 2*limit rows are all unrelated.
			{search.StrategyOverfetch, false},
		} {
			retriever := search.NewRetriever(
				fixedProvider{vector: []float32{1, 0, 0}},
				search.NewGormStore(uowFactory),
				search.Config{Strategy: tc.strategy},
				logger.NewNopLogger(),
			)
			results, err := retriever.SearchDocuments(ctx, search.SearchParams{
				Query:       "refunds",
				WorkspaceId: rankedWorkspace,
				Limit:       limit,
				Threshold:   &threshold,
			})
			require.NoError(t, err)
			if tc.found {
				require.Len(t, results, 1, string(tc.strategy))
				assert.Equal(t, oldest.Id, results[0].Item.Id)
			} else {
				assert.Empty(t, results, string(tc.strategy))
			}
		}
	})

	t.Run("Embedding job lifecycle", func(t *testing.T) {
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		job := &entity.EmbeddingJob{
			Id:              uuid.New(),
			KnowledgeItemId: far.Id,
			WorkspaceId:     workspaceId,
			Status:          constant.EmbeddingJobStatusPending,
			MaxAttempts:     3,
			CreatedAt:       time.Now(),
		}
		require.NoError(t, uow.EmbeddingJobRepository().Create(ctx, job))

		job.Status = constant.EmbeddingJobStatusFailed
		job.Attempts = 3
		job.LastError = "provider unavailable"
		require.NoError(t, uow.EmbeddingJobRepository().Update(ctx, job))

		got, err := uow.EmbeddingJobRepository().FindOne(ctx, specification.ByKnowledgeItemID{KnowledgeItemID: far.Id})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Exhausted())
		assert.Equal(t, "provider unavailable", got.LastError)
	})
}
