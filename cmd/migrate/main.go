package main

import (
	"log"

	"knowledge-rag-be/internal/config"
	"knowledge-rag-be/internal/model"
	"knowledge-rag-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.DefaultPoolConfig())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting knowledge schema migration...")

	// 3. Extensions (gen_random_uuid and the vector type)
	log.Println("Step 1: Setting up extensions...")
	for _, sql := range []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	} {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. Tables
	models := []interface{}{
		&model.WorkspaceMember{},
		&model.KnowledgeCollection{},
		&model.KnowledgeItem{},
		&model.EmbeddingJob{},
		&model.AiConversation{},
		&model.AiMessage{},
	}
	log.Printf("Step 2: Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Indexes GORM tags cannot express
	log.Println("Step 3: Creating indexes...")
	for _, sql := range []string{
		// Tag lookups.
		`CREATE INDEX IF NOT EXISTS knowledge_item_tags_idx ON knowledge_items USING gin (tags);`,
		`CREATE INDEX IF NOT EXISTS knowledge_item_ready_idx ON knowledge_items (workspace_id, created_at DESC) WHERE status = 'ready';`,
	} {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed.")
}
