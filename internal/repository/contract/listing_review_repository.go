package contract

import (
	"context"

	"homefinder-be/internal/entity"
)

type ListingReviewRepository interface {
	Create(ctx context.Context, review *entity.ListingReview) error
	FindAllByListing(ctx context.Context, listingId int64) ([]*entity.ListingReview, error)
}
