package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"knowledge-rag-be/internal/bootstrap"
	"knowledge-rag-be/internal/config"
	"knowledge-rag-be/internal/server"
	"knowledge-rag-be/internal/tracer"
	"knowledge-rag-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.App.JwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	poolCfg := database.DefaultPoolConfig()
	poolCfg.Verbose = cfg.Database.Verbose
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, poolCfg)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Embedding Worker...")
		if err := container.EmbeddingWorker.Run(ctx); err != nil {
			log.Printf("Background Embedding Worker Error: %v", err)
		}
	}()

	// Jobs queued before the last shutdown were lost with the in-memory queue.
	if cfg.Rag.EmbedRequeueAfter > 0 {
		go func() {
			select {
			case <-container.EmbeddingWorker.Running():
			case <-ctx.Done():
				return
			}
			n, err := container.KnowledgeService.RequeueStaleJobs(ctx, cfg.Rag.EmbedRequeueAfter)
			if err != nil {
				log.Printf("Background: stale embedding job sweep failed: %v", err)
				return
			}
			log.Printf("Background: re-queued %d stale embedding jobs", n)
		}()
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
