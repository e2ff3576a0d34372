package contract

import (
	"context"

	"homefinder-be/internal/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	Update(ctx context.Context, appointment *entity.Appointment) error
	FindById(ctx context.Context, id int64) (*entity.Appointment, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Appointment, error)
}
