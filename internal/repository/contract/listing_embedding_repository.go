package contract

import (
	"context"

	"homefinder-be/internal/entity"
)

type ListingEmbeddingRepository interface {
	// Upsert replaces the embedding row for the listing, creating it on
	// first write.
	Upsert(ctx context.Context, embedding *entity.ListingEmbedding) error
	DeleteByListingId(ctx context.Context, listingId int64) error
	// ClearAll hard-deletes every row. Used by the reindex job before a
	// full rebuild.
	ClearAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	// SearchSimilar returns embeddings by ascending cosine distance.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.ListingEmbedding, error)
}
