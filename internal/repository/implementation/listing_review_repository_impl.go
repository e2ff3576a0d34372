package implementation

import (
	"context"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/mapper"
	"homefinder-be/internal/model"
	"homefinder-be/internal/repository/contract"

	"gorm.io/gorm"
)

type ListingReviewRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ListingReviewMapper
}

func NewListingReviewRepository(db *gorm.DB) contract.ListingReviewRepository {
	return &ListingReviewRepositoryImpl{
		db:     db,
		mapper: mapper.NewListingReviewMapper(),
	}
}

func (r *ListingReviewRepositoryImpl) Create(ctx context.Context, review *entity.ListingReview) error {
	m := r.mapper.ToModel(review)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*review = *r.mapper.ToEntity(m)
	return nil
}

func (r *ListingReviewRepositoryImpl) FindAllByListing(ctx context.Context, listingId int64) ([]*entity.ListingReview, error) {
	var models []*model.ListingReview
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingId).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.ListingReview, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
