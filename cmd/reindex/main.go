package main

import (
	"context"
	"log"

	"homefinder-be/internal/config"
	"homefinder-be/internal/repository/unitofwork"
	"homefinder-be/internal/service"
	"homefinder-be/pkg/database"
	"homefinder-be/pkg/embedding"

	"github.com/fatih/color"
)

// Rebuilds both vector indexes from the primary store. Run after changing
// the embedding model or the document rendering.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	reindexService := service.NewReindexService(uowFactory, embeddingProvider)

	color.Cyan("Rebuilding vector indexes (provider: %s)...", cfg.Ai.EmbeddingProvider)

	res, err := reindexService.ReindexAll(context.Background())
	if err != nil {
		color.Red("Reindex failed: %v", err)
		log.Fatal(err)
	}

	color.Green("Done in %dms", res.DurationMillis)
	color.Green("  listings indexed: %d", res.ListingsIndexed)
	color.Green("  articles indexed: %d", res.ArticlesIndexed)
	color.Green("  chunks indexed:   %d", res.ChunksIndexed)
}
