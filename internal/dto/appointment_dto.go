package dto

import "time"

type CreateAppointmentRequest struct {
	ListingId int64     `json:"listing_id" validate:"required"`
	VisitAt   time.Time `json:"visit_at" validate:"required"`
	Note      string    `json:"note" validate:"max=1000"`
}

type AppointmentResponse struct {
	Id        int64     `json:"id"`
	ListingId int64     `json:"listing_id"`
	VisitAt   time.Time `json:"visit_at"`
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
