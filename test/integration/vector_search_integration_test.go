package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/repository/unitofwork"
	"homefinder-be/pkg/database"
	"homefinder-be/pkg/embedding"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// Rows at identical cosine distance must come back in insertion order,
// not whatever the planner happens to pick.
func TestVectorSearchEqualDistanceOrdering(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(ctx)

	article := &entity.KnowledgeArticle{
		Title:     "Ordering fixture",
		Content:   "three identical chunks",
		CreatedAt: time.Now(),
	}
	err = uow.KnowledgeRepository().Create(ctx, article)
	assert.NoError(t, err)
	defer func() {
		_ = uow.KnowledgeEmbeddingRepository().DeleteByArticleId(ctx, article.Id)
		_ = uow.KnowledgeRepository().Delete(ctx, article.Id)
	}()

	// All three chunks share one vector, so all three sit at distance zero
	// from the query.
	vec := make([]float32, embedding.MaxEmbeddingDim)
	vec[0] = 1

	rows := make([]*entity.KnowledgeEmbedding, 3)
	for i := range rows {
		rows[i] = &entity.KnowledgeEmbedding{
			ArticleId:      article.Id,
			ChunkIndex:     i,
			Document:       "chunk",
			EmbeddingValue: vec,
			CreatedAt:      time.Now(),
		}
	}
	err = uow.KnowledgeEmbeddingRepository().CreateBulk(ctx, rows)
	assert.NoError(t, err)

	got, err := uow.KnowledgeEmbeddingRepository().SearchSimilar(ctx, vec, 3)
	assert.NoError(t, err)
	assert.Len(t, got, 3)

	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Id, got[i].Id, "equal-distance results out of insertion order")
	}
}
