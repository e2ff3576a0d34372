package entity

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusRequested AppointmentStatus = "requested"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusDone      AppointmentStatus = "done"
)

// Appointment is a viewing request for a listing.
type Appointment struct {
	Id        int64
	UserId    uuid.UUID
	ListingId int64
	VisitAt   time.Time
	Status    AppointmentStatus
	Note      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
