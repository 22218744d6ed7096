package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diagnosis/clinic-bookings/internal/domain"
	"github.com/diagnosis/clinic-bookings/internal/platform/mailer"
	"github.com/diagnosis/clinic-bookings/internal/repo/postgres"
	"github.com/diagnosis/clinic-bookings/pkg/events"
	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

type BookingService interface {
	AvailabilityOn(ctx context.Context, date string) ([]domain.AppointmentOption, error)
	Admit(ctx context.Context, req *domain.BookingReq) (*domain.AdmitResult, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	Cancel(ctx context.Context, id int64, requester string, admin bool) error
}

type bookingService struct {
	options  postgres.OptionsRepo
	bookings postgres.BookingsRepo
	eventBus events.Publisher
	mail     mailer.Service
}

func NewBookingService(
	options postgres.OptionsRepo,
	bookings postgres.BookingsRepo,
	eventBus events.Publisher,
	mail mailer.Service,
) BookingService {
	return &bookingService{
		options:  options,
		bookings: bookings,
		eventBus: eventBus,
		mail:     mail,
	}
}

// AvailabilityOn returns the option catalog with each option's slots narrowed
// by the bookings already taken on the given date.
func (s *bookingService) AvailabilityOn(ctx context.Context, date string) ([]domain.AppointmentOption, error) {
	options, err := s.options.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment options: %w", err)
	}

	booked, err := s.bookings.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for %s: %w", date, err)
	}

	return domain.RemainingOptions(options, booked), nil
}

// Admit accepts a booking unless the requester already holds one for the same
// treatment and date. The pre-insert read exists only to produce a friendly
// message on the common path; the unique index on (appointment_date, email,
// treatment) is what actually enforces the invariant under concurrency.
func (s *bookingService) Admit(ctx context.Context, req *domain.BookingReq) (*domain.AdmitResult, error) {
	exists, err := s.bookings.ExistsFor(ctx, req.AppointmentDate, req.Email, req.Treatment)
	if err != nil {
		return nil, fmt.Errorf("failed duplicate check: %w", err)
	}
	if exists {
		return duplicateResult(req), nil
	}

	b, err := s.bookings.Create(ctx, req)
	if errors.Is(err, postgres.ErrDuplicateBooking) {
		// Lost a race with a concurrent identical request.
		return duplicateResult(req), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	event := events.BookingCreatedEvent{
		BookingID:       b.ID,
		Treatment:       b.Treatment,
		AppointmentDate: b.AppointmentDate,
		Slot:            b.Slot,
		Email:           b.Email,
		CreatedAt:       b.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", b.ID)
	}

	if err := s.mail.SendBookingConfirmation(b.Email, b.Patient, b.Treatment, b.AppointmentDate, b.Slot); err != nil {
		logger.ErrorContext(ctx, "Failed to send booking confirmation", "error", err, "booking_id", b.ID)
	}

	return &domain.AdmitResult{Acknowledged: true, Booking: b}, nil
}

func duplicateResult(req *domain.BookingReq) *domain.AdmitResult {
	return &domain.AdmitResult{
		Acknowledged: false,
		Message:      fmt.Sprintf("You already have a booking for %s on %s", req.Treatment, req.AppointmentDate),
	}
}

func (s *bookingService) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return s.bookings.ListByEmail(ctx, email)
}

// Cancel deletes a booking by id. Requesters may only cancel their own
// bookings; admins may cancel any.
func (s *bookingService) Cancel(ctx context.Context, id int64, requester string, admin bool) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}
	if b == nil {
		return ErrNotFound
	}
	if !admin && b.Email != requester {
		return ErrForbidden
	}

	ok, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	event := events.BookingCanceledEvent{
		BookingID:  id,
		Email:      b.Email,
		CanceledAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.BookingCanceled, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking canceled event", "error", err, "booking_id", id)
	}
	return nil
}
