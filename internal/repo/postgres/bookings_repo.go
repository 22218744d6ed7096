package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/clinic-bookings/internal/domain"
)

type BookingsRepo interface {
	Create(ctx context.Context, in *domain.BookingReq) (*domain.Booking, error)
	ExistsFor(ctx context.Context, date, email, treatment string) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	ListByDate(ctx context.Context, date string) ([]domain.Booking, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type BookingsRepoImpl struct{ pool *pgxpool.Pool }

func NewBookingsRepo(pool *pgxpool.Pool) *BookingsRepoImpl { return &BookingsRepoImpl{pool: pool} }

const bookingCols = `id, treatment, appointment_date, patient, email, phone, slot,
paid, transaction_id, created_at, updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(
		&b.ID, &b.Treatment, &b.AppointmentDate, &b.Patient, &b.Email, &b.Phone, &b.Slot,
		&b.Paid, &b.TransactionID, &b.CreatedAt, &b.UpdatedAt,
	)
}

// Create inserts the booking. The bookings table carries a unique index on
// (appointment_date, email, treatment); a violation is surfaced as
// ErrDuplicateBooking so concurrent admissions cannot double-book.
func (r *BookingsRepoImpl) Create(ctx context.Context, in *domain.BookingReq) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (
    treatment, appointment_date, patient, email, phone, slot
  ) VALUES ($1,$2,$3,$4,$5,$6)
  RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := scanBooking(r.pool.QueryRow(ctx, q,
		in.Treatment, in.AppointmentDate, in.Patient, in.Email, in.Phone, in.Slot,
	), &b)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingsRepoImpl) ExistsFor(ctx context.Context, date, email, treatment string) (bool, error) {
	const q = `SELECT EXISTS (
    SELECT 1 FROM bookings WHERE appointment_date=$1 AND email=$2 AND treatment=$3
  )`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	if err := r.pool.QueryRow(ctx, q, date, email, treatment).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BookingsRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := scanBooking(r.pool.QueryRow(ctx, q, id), &b)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingsRepoImpl) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE email=$1 ORDER BY appointment_date, slot`
	return r.list(ctx, q, email)
}

func (r *BookingsRepoImpl) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE appointment_date=$1`
	return r.list(ctx, q, date)
}

func (r *BookingsRepoImpl) list(ctx context.Context, q string, arg any) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bs := make([]domain.Booking, 0, 16)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bs = append(bs, b)
	}
	return bs, rows.Err()
}

func (r *BookingsRepoImpl) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

var _ BookingsRepo = (*BookingsRepoImpl)(nil)
