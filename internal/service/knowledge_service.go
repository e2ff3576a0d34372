package service

import (
	"context"
	"fmt"
	"time"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/entity"
	"homefinder-be/internal/pkg/serverutils"
	"homefinder-be/internal/repository/specification"
	"homefinder-be/internal/repository/unitofwork"
	"homefinder-be/pkg/embedding"
	"homefinder-be/pkg/utils"
)

// Articles are chunked before embedding so a single long guide does not
// blow the embedding context. 1500 chars with 200 overlap.
const (
	knowledgeChunkSize    = 1500
	knowledgeChunkOverlap = 200
)

type IKnowledgeService interface {
	Create(ctx context.Context, req *dto.CreateKnowledgeRequest) (*dto.KnowledgeResponse, error)
	Show(ctx context.Context, id int64) (*dto.KnowledgeResponse, error)
	List(ctx context.Context) ([]dto.KnowledgeResponse, error)
	Update(ctx context.Context, req *dto.UpdateKnowledgeRequest) (*dto.KnowledgeResponse, error)
	Delete(ctx context.Context, id int64) error
}

type knowledgeService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func toKnowledgeResponse(a *entity.KnowledgeArticle) *dto.KnowledgeResponse {
	return &dto.KnowledgeResponse{
		Id:        a.Id,
		Title:     a.Title,
		Content:   a.Content,
		CreatedAt: a.CreatedAt,
	}
}

func (s *knowledgeService) Create(ctx context.Context, req *dto.CreateKnowledgeRequest) (*dto.KnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	article := entity.KnowledgeArticle{
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := uow.KnowledgeRepository().Create(ctx, &article); err != nil {
		return nil, err
	}

	if err := s.reindexArticle(ctx, uow, &article); err != nil {
		return nil, err
	}

	return toKnowledgeResponse(&article), nil
}

func (s *knowledgeService) Show(ctx context.Context, id int64) (*dto.KnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	article, err := uow.KnowledgeRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, serverutils.NewNotFoundError("article not found")
	}
	return toKnowledgeResponse(article), nil
}

func (s *knowledgeService) List(ctx context.Context) ([]dto.KnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	articles, err := uow.KnowledgeRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.KnowledgeResponse, len(articles))
	for i, a := range articles {
		items[i] = *toKnowledgeResponse(a)
	}
	return items, nil
}

func (s *knowledgeService) Update(ctx context.Context, req *dto.UpdateKnowledgeRequest) (*dto.KnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	article, err := uow.KnowledgeRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, serverutils.NewNotFoundError("article not found")
	}

	now := time.Now()
	article.Title = req.Title
	article.Content = req.Content
	article.UpdatedAt = &now

	if err := uow.KnowledgeRepository().Update(ctx, article); err != nil {
		return nil, err
	}

	if err := s.reindexArticle(ctx, uow, article); err != nil {
		return nil, err
	}

	return toKnowledgeResponse(article), nil
}

func (s *knowledgeService) Delete(ctx context.Context, id int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	article, err := uow.KnowledgeRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if article == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.KnowledgeRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.KnowledgeEmbeddingRepository().DeleteByArticleId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

// reindexArticle rebuilds the article's chunk vectors: embed all chunks
// first, then swap old rows for new inside one transaction so retrieval
// never observes a half-indexed article.
func (s *knowledgeService) reindexArticle(ctx context.Context, uow unitofwork.UnitOfWork, article *entity.KnowledgeArticle) error {
	text := article.Title + "\n\n" + article.Content
	chunks := utils.SplitText(text, knowledgeChunkSize, knowledgeChunkOverlap)

	newEmbeddings := make([]*entity.KnowledgeEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := s.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return err
		}
		vec := embedding.Truncate(res.Embedding.Values)
		if err := embedding.CheckDim(vec, embedding.MaxEmbeddingDim); err != nil {
			return fmt.Errorf("article %d chunk %d: %w", article.Id, i, err)
		}
		newEmbeddings = append(newEmbeddings, &entity.KnowledgeEmbedding{
			ArticleId:      article.Id,
			ChunkIndex:     i,
			Document:       chunk,
			EmbeddingValue: vec,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.KnowledgeEmbeddingRepository().DeleteByArticleId(ctx, article.Id); err != nil {
		return err
	}
	if len(newEmbeddings) > 0 {
		if err := uow.KnowledgeEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			return err
		}
	}

	return uow.Commit()
}
