package service

import (
	"context"
	"fmt"
	"time"

	"homefinder-be/internal/dto"
	"homefinder-be/internal/entity"
	"homefinder-be/internal/pkg/mailer"
	"homefinder-be/internal/pkg/serverutils"
	"homefinder-be/internal/repository/specification"
	"homefinder-be/internal/repository/unitofwork"
	"homefinder-be/pkg/events"
	pktNats "homefinder-be/pkg/nats"

	"github.com/google/uuid"
)

type IAppointmentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, actorId uuid.UUID, id int64, status entity.AppointmentStatus) error
}

type appointmentService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
}

func NewAppointmentService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
) IAppointmentService {
	return &appointmentService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

func toAppointmentResponse(a *entity.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		Id:        a.Id,
		ListingId: a.ListingId,
		VisitAt:   a.VisitAt,
		Status:    string(a.Status),
		Note:      a.Note,
		CreatedAt: a.CreatedAt,
	}
}

func (s *appointmentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	listing, err := uow.ListingRepository().FindOne(ctx,
		specification.ByID{ID: req.ListingId},
		specification.ByStatus{Status: string(entity.ListingStatusPublished)},
	)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, serverutils.NewNotFoundError("listing not found")
	}
	if listing.OwnerId == userId {
		return nil, serverutils.NewBadRequestError("cannot book a viewing for your own listing")
	}
	if req.VisitAt.Before(time.Now()) {
		return nil, serverutils.NewBadRequestError("visit time must be in the future")
	}

	appointment := entity.Appointment{
		UserId:    userId,
		ListingId: req.ListingId,
		VisitAt:   req.VisitAt,
		Status:    entity.AppointmentStatusRequested,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}
	if err := uow.AppointmentRepository().Create(ctx, &appointment); err != nil {
		return nil, err
	}

	// Notify the listing owner by mail; auxiliary, never fails the request.
	owner, err := uow.UserRepository().FindById(ctx, listing.OwnerId)
	if err == nil && owner != nil && s.emailService != nil {
		go func(email, title string, visitAt time.Time) {
			if mailErr := s.emailService.SendAppointmentRequested(email, title, visitAt); mailErr != nil {
				fmt.Printf("Error sending appointment email: %v\n", mailErr)
			}
		}(owner.Email, listing.Title, appointment.VisitAt)
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "APPOINTMENT_REQUESTED",
			Data: map[string]interface{}{
				"appointment_id": appointment.Id,
				"listing_id":     listing.Id,
				"title":          listing.Title,
				"user_id":        listing.OwnerId.String(),
				"visit_at":       appointment.VisitAt.Format(time.RFC3339),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish APPOINTMENT_REQUESTED event: %v\n", err)
		}
	}

	resp := toAppointmentResponse(&appointment)
	return &resp, nil
}

func (s *appointmentService) List(ctx context.Context, userId uuid.UUID) ([]dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	appointments, err := uow.AppointmentRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AppointmentResponse, len(appointments))
	for i, a := range appointments {
		items[i] = toAppointmentResponse(a)
	}
	return items, nil
}

// UpdateStatus moves an appointment through its lifecycle. The listing
// owner confirms or completes, the requesting visitor may cancel.
func (s *appointmentService) UpdateStatus(ctx context.Context, actorId uuid.UUID, id int64, status entity.AppointmentStatus) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	appointment, err := uow.AppointmentRepository().FindById(ctx, id)
	if err != nil {
		return err
	}
	if appointment == nil {
		return serverutils.NewNotFoundError("appointment not found")
	}

	listing, err := uow.ListingRepository().FindOne(ctx, specification.ByID{ID: appointment.ListingId})
	if err != nil {
		return err
	}
	if listing == nil {
		return serverutils.NewNotFoundError("listing not found")
	}

	isOwner := listing.OwnerId == actorId
	isVisitor := appointment.UserId == actorId

	switch status {
	case entity.AppointmentStatusConfirmed, entity.AppointmentStatusDone:
		if !isOwner {
			return serverutils.NewForbiddenError("only the listing owner can update this appointment")
		}
	case entity.AppointmentStatusCancelled:
		if !isOwner && !isVisitor {
			return serverutils.NewForbiddenError("not your appointment")
		}
	default:
		return serverutils.NewBadRequestError("invalid appointment status")
	}

	now := time.Now()
	appointment.Status = status
	appointment.UpdatedAt = &now
	if err := uow.AppointmentRepository().Update(ctx, appointment); err != nil {
		return err
	}

	visitor, err := uow.UserRepository().FindById(ctx, appointment.UserId)
	if err == nil && visitor != nil && s.emailService != nil {
		go func(email, title, status string, visitAt time.Time) {
			if mailErr := s.emailService.SendAppointmentStatus(email, title, status, visitAt); mailErr != nil {
				fmt.Printf("Error sending appointment status email: %v\n", mailErr)
			}
		}(visitor.Email, listing.Title, string(status), appointment.VisitAt)
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "APPOINTMENT_UPDATED",
			Data: map[string]interface{}{
				"appointment_id": appointment.Id,
				"listing_id":     listing.Id,
				"title":          listing.Title,
				"user_id":        appointment.UserId.String(),
				"status":         string(status),
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish APPOINTMENT_UPDATED event: %v\n", err)
		}
	}

	return nil
}
