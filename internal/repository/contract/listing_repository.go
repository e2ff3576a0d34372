package contract

import (
	"context"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/repository/specification"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Listing, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Listing, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
