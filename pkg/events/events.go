package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	BookingCreated  = "booking.created"
	BookingCanceled = "booking.canceled"
	PaymentRecorded = "payment.recorded"
	UserPromoted    = "user.promoted"
)

type BookingCreatedEvent struct {
	BookingID       int64     `json:"booking_id"`
	Treatment       string    `json:"treatment"`
	AppointmentDate string    `json:"appointment_date"`
	Slot            string    `json:"slot"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"created_at"`
}

type BookingCanceledEvent struct {
	BookingID  int64     `json:"booking_id"`
	Email      string    `json:"email"`
	CanceledAt time.Time `json:"canceled_at"`
}

type PaymentRecordedEvent struct {
	BookingID     int64  `json:"booking_id"`
	TransactionID string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
	Email         string `json:"email"`
}

type UserPromotedEvent struct {
	UserID     int64     `json:"user_id"`
	PromotedBy string    `json:"promoted_by"`
	PromotedAt time.Time `json:"promoted_at"`
}
