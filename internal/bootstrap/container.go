package bootstrap

import (
	"context"
	"log"

	"knowledge-rag-be/internal/config"
	"knowledge-rag-be/internal/controller"
	"knowledge-rag-be/internal/pkg/logger"
	"knowledge-rag-be/internal/pkg/serverutils"
	"knowledge-rag-be/internal/repository/memory"
	"knowledge-rag-be/internal/repository/redisstore"
	"knowledge-rag-be/internal/repository/unitofwork"
	"knowledge-rag-be/internal/service"
	"knowledge-rag-be/pkg/embedding"
	"knowledge-rag-be/pkg/embedding/factory"
	"knowledge-rag-be/pkg/events"
	"knowledge-rag-be/pkg/rag/history"
	"knowledge-rag-be/pkg/rag/prompt"
	"knowledge-rag-be/pkg/rag/search"

	pktNats "knowledge-rag-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	KnowledgeController    controller.IKnowledgeController
	CollectionController   controller.ICollectionController
	ConversationController controller.IConversationController
	RagController          controller.IRagController

	// Guards applied to every workspace route: JWT first, then membership.
	Guards []fiber.Handler

	// Background Services (Exposed for main.go to run)
	EmbeddingWorker  service.IEmbeddingWorker
	KnowledgeService service.IKnowledgeService

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx := context.Background()

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	workerLogger := logger.NewIsolatedLogger(cfg.App.WorkerLogFilePath)

	c := &Container{}

	// 2. Job Queue
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		logger.NewWatermillAdapter(workerLogger, "PubSub"),
	)

	// 3. Embedding Provider
	provider, err := NewEmbeddingProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, provider.Model())

	// Queries go through the cache; ingestion always calls the provider.
	queryProvider := c.withEmbeddingCache(ctx, cfg, provider)

	// 4. Events
	var eventPublisher events.Publisher = events.NopPublisher{}
	if cfg.Rag.EventsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 5. Retrieval
	strategy, err := search.ParseStrategy(cfg.Rag.CandidateStrategy)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	retriever := search.NewRetriever(
		queryProvider,
		search.NewGormStore(uowFactory),
		search.Config{Strategy: strategy, EnforceEmbeddingModel: cfg.Rag.EnforceEmbeddingModel},
		sysLogger,
	)
	assembler := prompt.NewAssembler(retriever, history.NewLoader(uowFactory))

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Rag.EmbedTopic, pubSub)
	workspaceService := service.NewWorkspaceService(uowFactory)
	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService, retriever, sysLogger, cfg.Rag.EmbedMaxAttempts)
	collectionService := service.NewCollectionService(uowFactory)
	conversationService := service.NewConversationService(uowFactory)
	ragService := service.NewRagService(assembler)

	worker, err := service.NewEmbeddingWorker(
		pubSub,
		service.EmbeddingWorkerConfig{Topic: cfg.Rag.EmbedTopic, MaxAttempts: cfg.Rag.EmbedMaxAttempts},
		uowFactory,
		provider,
		eventPublisher,
		workerLogger,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Worker: %v", err)
	}

	// 7. Controllers
	c.KnowledgeController = controller.NewKnowledgeController(knowledgeService)
	c.CollectionController = controller.NewCollectionController(collectionService)
	c.ConversationController = controller.NewConversationController(conversationService)
	c.RagController = controller.NewRagController(ragService)
	c.Guards = []fiber.Handler{
		serverutils.NewJwtMiddleware(cfg.App.JwtSecret),
		serverutils.WorkspaceMiddleware(workspaceService),
	}
	c.EmbeddingWorker = worker
	c.KnowledgeService = knowledgeService
	c.closers = append(c.closers, func() { _ = pubSub.Close() }, func() { _ = sysLogger.Sync() })

	return c
}

// Close releases connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func (c *Container) withEmbeddingCache(ctx context.Context, cfg *config.Config, provider embedding.Provider) embedding.Provider {
	switch cfg.Rag.EmbeddingCache {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		log.Printf("[INFO] Query embedding cache: redis (ttl %s)", cfg.Rag.EmbeddingCacheTTL)
		return embedding.NewCachedProvider(provider, redisstore.NewEmbeddingCache(rdb, cfg.Rag.EmbeddingCacheTTL))
	case "none", "":
		return provider
	default:
		log.Printf("[INFO] Query embedding cache: memory (ttl %s)", cfg.Rag.EmbeddingCacheTTL)
		return embedding.NewCachedProvider(provider, memory.NewEmbeddingCache(cfg.Rag.EmbeddingCacheTTL))
	}
}

// NewEmbeddingProvider builds the configured provider without any cache.
func NewEmbeddingProvider(ctx context.Context, cfg *config.Config) (embedding.Provider, error) {
	return factory.NewEmbeddingProvider(ctx, factory.Options{
		Provider:      cfg.Ai.EmbeddingProvider,
		Model:         cfg.Ai.EmbeddingModel,
		Dimension:     cfg.Ai.EmbeddingDimension,
		APIKey:        providerKey(cfg),
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
	})
}

func providerKey(cfg *config.Config) string {
	switch cfg.Ai.EmbeddingProvider {
	case "gemini":
		return cfg.Keys.GoogleGemini
	case "jina":
		return cfg.Keys.Jina
	default:
		return cfg.Keys.OpenAI
	}
}
