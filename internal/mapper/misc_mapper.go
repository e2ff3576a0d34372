package mapper

import (
	"time"

	"homefinder-be/internal/entity"
	"homefinder-be/internal/model"

	"gorm.io/gorm"
)

type FavoriteMapper struct{}

func NewFavoriteMapper() *FavoriteMapper {
	return &FavoriteMapper{}
}

func (m *FavoriteMapper) ToEntity(f *model.Favorite) *entity.Favorite {
	if f == nil {
		return nil
	}
	return &entity.Favorite{
		Id:        f.Id,
		UserId:    f.UserId,
		ListingId: f.ListingId,
		CreatedAt: f.CreatedAt,
	}
}

func (m *FavoriteMapper) ToModel(f *entity.Favorite) *model.Favorite {
	if f == nil {
		return nil
	}
	return &model.Favorite{
		Id:        f.Id,
		UserId:    f.UserId,
		ListingId: f.ListingId,
		CreatedAt: f.CreatedAt,
	}
}

type AppointmentMapper struct{}

func NewAppointmentMapper() *AppointmentMapper {
	return &AppointmentMapper{}
}

func (m *AppointmentMapper) ToEntity(a *model.Appointment) *entity.Appointment {
	if a == nil {
		return nil
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.Appointment{
		Id:        a.Id,
		UserId:    a.UserId,
		ListingId: a.ListingId,
		VisitAt:   a.VisitAt,
		Status:    entity.AppointmentStatus(a.Status),
		Note:      a.Note,
		CreatedAt: a.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *AppointmentMapper) ToModel(a *entity.Appointment) *model.Appointment {
	if a == nil {
		return nil
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	return &model.Appointment{
		Id:        a.Id,
		UserId:    a.UserId,
		ListingId: a.ListingId,
		VisitAt:   a.VisitAt,
		Status:    string(a.Status),
		Note:      a.Note,
		CreatedAt: a.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: gorm.DeletedAt{},
	}
}

type ListingReviewMapper struct{}

func NewListingReviewMapper() *ListingReviewMapper {
	return &ListingReviewMapper{}
}

func (m *ListingReviewMapper) ToEntity(r *model.ListingReview) *entity.ListingReview {
	if r == nil {
		return nil
	}
	return &entity.ListingReview{
		Id:         r.Id,
		ListingId:  r.ListingId,
		ReviewerId: r.ReviewerId,
		Approved:   r.Approved,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *ListingReviewMapper) ToModel(r *entity.ListingReview) *model.ListingReview {
	if r == nil {
		return nil
	}
	return &model.ListingReview{
		Id:         r.Id,
		ListingId:  r.ListingId,
		ReviewerId: r.ReviewerId,
		Approved:   r.Approved,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
	}
}
