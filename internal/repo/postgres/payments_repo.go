package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/clinic-bookings/internal/domain"
)

type PaymentsRepo interface {
	Record(ctx context.Context, in *domain.PaymentReq) (*domain.Payment, error)
}

type PaymentsRepoImpl struct{ pool *pgxpool.Pool }

func NewPaymentsRepo(pool *pgxpool.Pool) *PaymentsRepoImpl { return &PaymentsRepoImpl{pool: pool} }

// Record inserts the payment and marks the referenced booking paid in a
// single transaction, so a half-applied payment can never be observed.
func (r *PaymentsRepoImpl) Record(ctx context.Context, in *domain.PaymentReq) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertQ = `
INSERT INTO payments (booking_id, transaction_id, amount_cents, email)
VALUES ($1,$2,$3,$4)
RETURNING id, booking_id, transaction_id, amount_cents, email, created_at`

	var p domain.Payment
	if err := tx.QueryRow(ctx, insertQ,
		in.BookingID, in.TransactionID, in.AmountCents, in.Email,
	).Scan(&p.ID, &p.BookingID, &p.TransactionID, &p.AmountCents, &p.Email, &p.CreatedAt); err != nil {
		return nil, err
	}

	const updateQ = `UPDATE bookings SET paid=true, transaction_id=$2, updated_at=now() WHERE id=$1`
	if _, err := tx.Exec(ctx, updateQ, in.BookingID, in.TransactionID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ PaymentsRepo = (*PaymentsRepoImpl)(nil)
