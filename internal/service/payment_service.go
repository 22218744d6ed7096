package service

import (
	"context"
	"fmt"

	"github.com/diagnosis/clinic-bookings/internal/domain"
	"github.com/diagnosis/clinic-bookings/internal/platform/payments"
	"github.com/diagnosis/clinic-bookings/internal/repo/postgres"
	"github.com/diagnosis/clinic-bookings/pkg/events"
	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

type PaymentService interface {
	Record(ctx context.Context, req *domain.PaymentReq) (*domain.Payment, error)
	CreateIntent(ctx context.Context, amountMajor int64) (string, error)
}

type paymentService struct {
	payments postgres.PaymentsRepo
	bookings postgres.BookingsRepo
	gateway  *payments.Gateway
	eventBus events.Publisher
}

func NewPaymentService(
	paymentsRepo postgres.PaymentsRepo,
	bookings postgres.BookingsRepo,
	gateway *payments.Gateway,
	eventBus events.Publisher,
) PaymentService {
	return &paymentService{
		payments: paymentsRepo,
		bookings: bookings,
		gateway:  gateway,
		eventBus: eventBus,
	}
}

// Record stores the payment and flips the booking to paid in one transaction.
func (s *paymentService) Record(ctx context.Context, req *domain.PaymentReq) (*domain.Payment, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	p, err := s.payments.Record(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	event := events.PaymentRecordedEvent{
		BookingID:     p.BookingID,
		TransactionID: p.TransactionID,
		AmountCents:   p.AmountCents,
		Email:         p.Email,
	}
	if err := s.eventBus.Publish(ctx, events.PaymentRecorded, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish payment recorded event", "error", err, "booking_id", p.BookingID)
	}
	return p, nil
}

func (s *paymentService) CreateIntent(ctx context.Context, amountMajor int64) (string, error) {
	return s.gateway.CreateIntent(ctx, amountMajor)
}
