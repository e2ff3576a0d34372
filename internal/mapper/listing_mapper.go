package mapper

import (
	"encoding/json"
	"time"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ListingMapper struct{}

func NewListingMapper() *ListingMapper {
	return &ListingMapper{}
}

func (m *ListingMapper) ToEntity(l *model.Listing) *entity.Listing {
	if l == nil {
		return nil
	}

	var deletedAt *time.Time
	if l.DeletedAt.Valid {
		t := l.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !l.UpdatedAt.IsZero() {
		t := l.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	if len(l.Tags) > 0 {
		_ = json.Unmarshal(l.Tags, &tags)
	}

	return &entity.Listing{
		Id:          l.Id,
		Title:       l.Title,
		Address:     l.Address,
		City:        l.City,
		District:    l.District,
		Rooms:       l.Rooms,
		Halls:       l.Halls,
		AreaSqm:     l.AreaSqm,
		TotalPrice:  l.TotalPrice,
		UnitPrice:   l.UnitPrice,
		Orientation: l.Orientation,
		Decoration:  l.Decoration,
		Floor:       l.Floor,
		Description: l.Description,
		Tags:        tags,
		Status:      entity.ListingStatus(l.Status),
		OwnerId:     l.OwnerId,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   l.DeletedAt.Valid,
	}
}

func (m *ListingMapper) ToModel(l *entity.Listing) *model.Listing {
	if l == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if l.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *l.DeletedAt, Valid: true}
	} else if l.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if l.UpdatedAt != nil {
		updatedAt = *l.UpdatedAt
	}

	var tags datatypes.JSON
	if l.Tags != nil {
		raw, _ := json.Marshal(l.Tags)
		tags = datatypes.JSON(raw)
	}

	return &model.Listing{
		Id:          l.Id,
		Title:       l.Title,
		Address:     l.Address,
		City:        l.City,
		District:    l.District,
		Rooms:       l.Rooms,
		Halls:       l.Halls,
		AreaSqm:     l.AreaSqm,
		TotalPrice:  l.TotalPrice,
		UnitPrice:   l.UnitPrice,
		Orientation: l.Orientation,
		Decoration:  l.Decoration,
		Floor:       l.Floor,
		Description: l.Description,
		Tags:        tags,
		Status:      string(l.Status),
		OwnerId:     l.OwnerId,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *ListingMapper) ToEntities(listings []*model.Listing) []*entity.Listing {
	entities := make([]*entity.Listing, len(listings))
	for i, l := range listings {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
