package implementation

import (
	"context"
	"errors"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/mapper"
	"homefinder-be/internal/model"
	"homefinder-be/internal/repository/contract"
	"homefinder-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ListingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ListingMapper
}

func NewListingRepository(db *gorm.DB) contract.ListingRepository {
	return &ListingRepositoryImpl{
		db:     db,
		mapper: mapper.NewListingMapper(),
	}
}

func (r *ListingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ListingRepositoryImpl) Create(ctx context.Context, listing *entity.Listing) error {
	m := r.mapper.ToModel(listing)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*listing = *r.mapper.ToEntity(m)
	return nil
}

func (r *ListingRepositoryImpl) Update(ctx context.Context, listing *entity.Listing) error {
	m := r.mapper.ToModel(listing)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*listing = *r.mapper.ToEntity(m)
	return nil
}

func (r *ListingRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Listing{}, id).Error
}

func (r *ListingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Listing, error) {
	var m model.Listing
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ListingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Listing, error) {
	var models []*model.Listing
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ListingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Listing{}).Count(&count).Error
	return count, err
}
