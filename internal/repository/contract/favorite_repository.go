package contract

import (
	"context"

	"homefinder-be/internal/entity"

	"github.com/google/uuid"
)

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *entity.Favorite) error
	Delete(ctx context.Context, userId uuid.UUID, listingId int64) error
	Exists(ctx context.Context, userId uuid.UUID, listingId int64) (bool, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Favorite, error)
}
