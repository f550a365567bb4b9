package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"knowledge-rag-be/internal/bootstrap"
	"knowledge-rag-be/internal/config"
	"knowledge-rag-be/internal/pkg/logger"
	"knowledge-rag-be/internal/repository/unitofwork"
	"knowledge-rag-be/pkg/database"
	"knowledge-rag-be/pkg/rag/search"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Prints every ready item of a workspace with its score for each query, and
// which thresholds it would pass.
//
//	go run ./cmd/rag_diagnostic <workspace-id> "query one" "query two"
func main() {
	if len(os.Args) < 3 {
		log.Fatal("usage: rag_diagnostic <workspace-id> <query> [query...]")
	}
	workspaceId, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatal("Invalid workspace ID:", err)
	}
	queries := os.Args[2:]

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

	retriever := search.NewRetriever(
		provider,
		search.NewGormStore(unitofwork.NewRepositoryFactory(db)),
		search.Config{Strategy: search.StrategyFull, EnforceEmbeddingModel: cfg.Rag.EnforceEmbeddingModel},
		logger.NewNopLogger(),
	)

	thresholds := []float64{0.9, 0.8, search.DefaultThreshold, 0.6, search.SimilarMinScore, 0.3}
	zero := 0.0

	header := color.New(color.FgCyan, color.Bold)
	pass := color.New(color.FgGreen).SprintFunc()
	miss := color.New(color.FgHiBlack).SprintFunc()

	header.Println(strings.Repeat("=", 80))
	header.Println("RAG RETRIEVAL DIAGNOSTIC")
	header.Println(strings.Repeat("=", 80))
	fmt.Printf("Workspace: %s\n", workspaceId)
	fmt.Printf("Provider:  %s (%s)\n", cfg.Ai.EmbeddingProvider, provider.Model())
	fmt.Println()

	for _, query := range queries {
		header.Printf("QUERY: %q\n", query)
		fmt.Println(strings.Repeat("-", 80))

		results, err := retriever.SearchDocuments(ctx, search.SearchParams{
			Query:       query,
			WorkspaceId: workspaceId,
			Limit:       1 << 20,
			Threshold:   &zero,
		})
		if err != nil {
			color.Red("Search failed: %v", err)
			continue
		}

		fmt.Printf("%-4s %-40s %-10s", "#", "Title", "Score")
		for _, t := range thresholds {
			fmt.Printf(" @%.2f", t)
		}
		fmt.Println()

		for i, res := range results {
			title := res.Item.Title
			if len([]rune(title)) > 38 {
				title = string([]rune(title)[:35]) + "..."
			}
			fmt.Printf("%-4d %-40s %-10.4f", i+1, title, res.RelevanceScore)
			for _, t := range thresholds {
				if res.RelevanceScore >= t {
					fmt.Print(pass("   Y  "))
				} else {
					fmt.Print(miss("   -  "))
				}
			}
			fmt.Println()
			if res.Snippet != "" {
				fmt.Printf("     %s\n", miss(res.Snippet))
			}
		}

		fmt.Println()
		fmt.Println("Summary by threshold:")
		for _, t := range thresholds {
			count := 0
			for _, res := range results {
				if res.RelevanceScore >= t {
					count++
				}
			}
			fmt.Printf("  %.2f: %d items\n", t, count)
		}
		fmt.Println()
	}
}
