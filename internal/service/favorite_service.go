package service

import (
	"context"
	"time"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/entity"
	"homefinder-be/internal/pkg/serverutils"
	"homefinder-be/internal/repository/specification"
	"homefinder-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IFavoriteService interface {
	Add(ctx context.Context, userId uuid.UUID, listingId int64) error
	Remove(ctx context.Context, userId uuid.UUID, listingId int64) error
	List(ctx context.Context, userId uuid.UUID) ([]dto.FavoriteResponse, error)
}

type favoriteService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFavoriteService(uowFactory unitofwork.RepositoryFactory) IFavoriteService {
	return &favoriteService{uowFactory: uowFactory}
}

func (s *favoriteService) Add(ctx context.Context, userId uuid.UUID, listingId int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	listing, err := uow.ListingRepository().FindOne(ctx,
		specification.ByID{ID: listingId},
		specification.ByStatus{Status: string(entity.ListingStatusPublished)},
	)
	if err != nil {
		return err
	}
	if listing == nil {
		return serverutils.NewNotFoundError("listing not found")
	}

	exists, err := uow.FavoriteRepository().Exists(ctx, userId, listingId)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	favorite := entity.Favorite{
		UserId:    userId,
		ListingId: listingId,
		CreatedAt: time.Now(),
	}
	return uow.FavoriteRepository().Create(ctx, &favorite)
}

func (s *favoriteService) Remove(ctx context.Context, userId uuid.UUID, listingId int64) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FavoriteRepository().Delete(ctx, userId, listingId)
}

func (s *favoriteService) List(ctx context.Context, userId uuid.UUID) ([]dto.FavoriteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	favorites, err := uow.FavoriteRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(favorites) == 0 {
		return []dto.FavoriteResponse{}, nil
	}

	ids := make([]int64, len(favorites))
	for i, f := range favorites {
		ids[i] = f.ListingId
	}

	listings, err := uow.ListingRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}

	byId := make(map[int64]*entity.Listing, len(listings))
	for _, l := range listings {
		byId[l.Id] = l
	}

	items := make([]dto.FavoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		listing, ok := byId[f.ListingId]
		if !ok {
			continue // listing deleted since favourited
		}
		items = append(items, dto.FavoriteResponse{
			Id:        f.Id,
			Listing:   *toListingResponse(listing),
			CreatedAt: f.CreatedAt,
		})
	}
	return items, nil
}
