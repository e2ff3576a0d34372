package service

import (
	"context"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/repository/specification"
	"homefinder-be/internal/repository/unitofwork"
)

// ListingSource exposes the listing corpus to the retrieval service:
// nearest neighbours come from the pgvector index, item resolution goes
// through the listing table. Only published listings resolve; an id whose
// listing was deleted or unpublished since indexing simply drops out.
type ListingSource struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewListingSource(uowFactory unitofwork.RepositoryFactory) *ListingSource {
	return &ListingSource{uowFactory: uowFactory}
}

func (s *ListingSource) Nearest(ctx context.Context, vector []float32, k int) ([]int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	embeddings, err := uow.ListingEmbeddingRepository().SearchSimilar(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(embeddings))
	for i, e := range embeddings {
		ids[i] = e.ListingId
	}
	return ids, nil
}

func (s *ListingSource) FetchByIDs(ctx context.Context, ids []int64) ([]*entity.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	listings, err := uow.ListingRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.ByStatus{Status: string(entity.ListingStatusPublished)},
	)
	if err != nil {
		return nil, err
	}

	// The database returns rows in arbitrary order; re-sort by the given
	// id order so the context block keeps distance ranking.
	byId := make(map[int64]*entity.Listing, len(listings))
	for _, l := range listings {
		byId[l.Id] = l
	}

	ordered := make([]*entity.Listing, 0, len(listings))
	for _, id := range ids {
		if l, ok := byId[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}

// KnowledgeSource exposes the knowledge corpus at chunk granularity: the
// nearest chunks are served directly, not whole articles.
type KnowledgeSource struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewKnowledgeSource(uowFactory unitofwork.RepositoryFactory) *KnowledgeSource {
	return &KnowledgeSource{uowFactory: uowFactory}
}

func (s *KnowledgeSource) Nearest(ctx context.Context, vector []float32, k int) ([]int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	embeddings, err := uow.KnowledgeEmbeddingRepository().SearchSimilar(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(embeddings))
	for i, e := range embeddings {
		ids[i] = e.Id
	}
	return ids, nil
}

func (s *KnowledgeSource) FetchByIDs(ctx context.Context, ids []int64) ([]*entity.KnowledgeEmbedding, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.KnowledgeEmbeddingRepository().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byId := make(map[int64]*entity.KnowledgeEmbedding, len(chunks))
	for _, c := range chunks {
		byId[c.Id] = c
	}

	ordered := make([]*entity.KnowledgeEmbedding, 0, len(chunks))
	for _, id := range ids {
		if c, ok := byId[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}
