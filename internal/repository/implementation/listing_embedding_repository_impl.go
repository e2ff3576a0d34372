package implementation

import (
	"context"
	"errors"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/mapper"
	"homefinder-be/internal/model"
	"homefinder-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListingEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ListingEmbeddingMapper
}

func NewListingEmbeddingRepository(db *gorm.DB) contract.ListingEmbeddingRepository {
	return &ListingEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewListingEmbeddingMapper(),
	}
}

func (r *ListingEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.ListingEmbedding) error {
	m := r.mapper.ToModel(embedding)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "listing_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "embedding_value", "updated_at", "deleted_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *ListingEmbeddingRepositoryImpl) DeleteByListingId(ctx context.Context, listingId int64) error {
	return r.db.WithContext(ctx).Where("listing_id = ?", listingId).Delete(&model.ListingEmbedding{}).Error
}

func (r *ListingEmbeddingRepositoryImpl) ClearAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&model.ListingEmbedding{}).Error
}

func (r *ListingEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ListingEmbedding{}).Count(&count).Error
	return count, err
}

func (r *ListingEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.ListingEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.ListingEmbedding

	// pgvector cosine distance, ascending: nearest first. Equal distances
	// fall back to insertion order so result sets stay stable.
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(embedding))).
		Order("id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	entities := make([]*entity.ListingEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
