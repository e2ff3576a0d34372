package implementation

import (
	"context"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/mapper"
	"homefinder-be/internal/model"
	"homefinder-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FavoriteMapper
}

func NewFavoriteRepository(db *gorm.DB) contract.FavoriteRepository {
	return &FavoriteRepositoryImpl{
		db:     db,
		mapper: mapper.NewFavoriteMapper(),
	}
}

func (r *FavoriteRepositoryImpl) Create(ctx context.Context, favorite *entity.Favorite) error {
	m := r.mapper.ToModel(favorite)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*favorite = *r.mapper.ToEntity(m)
	return nil
}

func (r *FavoriteRepositoryImpl) Delete(ctx context.Context, userId uuid.UUID, listingId int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userId, listingId).
		Delete(&model.Favorite{}).Error
}

func (r *FavoriteRepositoryImpl) Exists(ctx context.Context, userId uuid.UUID, listingId int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND listing_id = ?", userId, listingId).
		Count(&count).Error
	return count > 0, err
}

func (r *FavoriteRepositoryImpl) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Favorite, error) {
	var models []*model.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.Favorite, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
