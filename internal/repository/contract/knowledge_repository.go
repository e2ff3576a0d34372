package contract

import (
	"context"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/repository/specification"
)

type KnowledgeRepository interface {
	Create(ctx context.Context, article *entity.KnowledgeArticle) error
	Update(ctx context.Context, article *entity.KnowledgeArticle) error
	Delete(ctx context.Context, id int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeArticle, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeArticle, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type KnowledgeEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.KnowledgeEmbedding) error
	FindByIDs(ctx context.Context, ids []int64) ([]*entity.KnowledgeEmbedding, error)
	DeleteByArticleId(ctx context.Context, articleId int64) error
	ClearAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.KnowledgeEmbedding, error)
}
