package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleNone  Role = ""
)

// AppointmentOption is a bookable treatment with its catalog of time slots.
// Defined by an administrator; read-only to the booking flow.
type AppointmentOption struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Slots      []string `json:"slots"`
	PriceCents int64    `json:"price_cents"`
}

type Booking struct {
	ID              int64     `json:"id"`
	Treatment       string    `json:"treatment"`
	AppointmentDate string    `json:"appointment_date"`
	Patient         string    `json:"patient"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Slot            string    `json:"slot"`
	Paid            bool      `json:"paid"`
	TransactionID   *string   `json:"transaction_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookingReq struct {
	Treatment       string `json:"treatment"`
	AppointmentDate string `json:"appointment_date"`
	Patient         string `json:"patient"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Slot            string `json:"slot"`
}

// AdmitResult carries the outcome of booking admission. A duplicate request
// is reported through Acknowledged=false rather than an error status so
// clients can show the message.
type AdmitResult struct {
	Acknowledged bool     `json:"acknowledged"`
	Message      string   `json:"message,omitempty"`
	Booking      *Booking `json:"booking,omitempty"`
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type Payment struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	AmountCents   int64     `json:"amount_cents"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

type PaymentReq struct {
	BookingID     int64  `json:"booking_id"`
	TransactionID string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
	Email         string `json:"email"`
}
