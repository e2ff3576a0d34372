package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/entity"
	"homefinder-be/internal/repository/specification"
	"homefinder-be/internal/repository/unitofwork"
	"homefinder-be/pkg/embedding"
	"homefinder-be/pkg/utils"
)

type IReindexService interface {
	ReindexAll(ctx context.Context) (*dto.ReindexResponse, error)
}

type reindexService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewReindexService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IReindexService {
	return &reindexService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

// ReindexAll drops both vector indexes and rebuilds them from scratch:
// every published listing, then every knowledge article chunk. Retrieval
// during the rebuild sees a partially filled index, never a stale one.
func (s *reindexService) ReindexAll(ctx context.Context) (*dto.ReindexResponse, error) {
	started := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	log.Printf("[INFO] Reindex started, clearing existing vectors")
	if err := uow.ListingEmbeddingRepository().ClearAll(ctx); err != nil {
		return nil, err
	}
	if err := uow.KnowledgeEmbeddingRepository().ClearAll(ctx); err != nil {
		return nil, err
	}

	listings, err := uow.ListingRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.ListingStatusPublished)},
	)
	if err != nil {
		return nil, err
	}

	listingsIndexed := 0
	for i, listing := range listings {
		document := RenderListingDocument(listing)
		res, err := s.embeddingProvider.Generate(document, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, err
		}

		vec := embedding.Truncate(res.Embedding.Values)
		if err := embedding.CheckDim(vec, embedding.MaxEmbeddingDim); err != nil {
			return nil, fmt.Errorf("listing %d: %w", listing.Id, err)
		}

		now := time.Now()
		emb := &entity.ListingEmbedding{
			ListingId:      listing.Id,
			Document:       document,
			EmbeddingValue: vec,
			CreatedAt:      now,
			UpdatedAt:      &now,
		}
		if err := uow.ListingEmbeddingRepository().Upsert(ctx, emb); err != nil {
			return nil, err
		}

		listingsIndexed++
		log.Printf("[INFO] Reindexed listing %d/%d (id %d)", i+1, len(listings), listing.Id)
	}

	articles, err := uow.KnowledgeRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	chunksIndexed := 0
	for i, article := range articles {
		text := article.Title + "\n\n" + article.Content
		chunks := utils.SplitText(text, knowledgeChunkSize, knowledgeChunkOverlap)

		newEmbeddings := make([]*entity.KnowledgeEmbedding, 0, len(chunks))
		for ci, chunk := range chunks {
			res, err := s.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
			if err != nil {
				return nil, err
			}
			vec := embedding.Truncate(res.Embedding.Values)
			if err := embedding.CheckDim(vec, embedding.MaxEmbeddingDim); err != nil {
				return nil, fmt.Errorf("article %d chunk %d: %w", article.Id, ci, err)
			}
			newEmbeddings = append(newEmbeddings, &entity.KnowledgeEmbedding{
				ArticleId:      article.Id,
				ChunkIndex:     ci,
				Document:       chunk,
				EmbeddingValue: vec,
				CreatedAt:      time.Now(),
			})
		}

		if err := uow.KnowledgeEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			return nil, err
		}

		chunksIndexed += len(newEmbeddings)
		log.Printf("[INFO] Reindexed article %d/%d (id %d, %d chunks)", i+1, len(articles), article.Id, len(newEmbeddings))
	}

	resp := &dto.ReindexResponse{
		ListingsIndexed: listingsIndexed,
		ArticlesIndexed: len(articles),
		ChunksIndexed:   chunksIndexed,
		DurationMillis:  time.Since(started).Milliseconds(),
	}
	log.Printf("[SUCCESS] Reindex complete: %d listings, %d articles, %d chunks in %dms",
		resp.ListingsIndexed, resp.ArticlesIndexed, resp.ChunksIndexed, resp.DurationMillis)
	return resp, nil
}
