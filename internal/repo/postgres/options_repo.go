package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/clinic-bookings/internal/domain"
)

type OptionsRepo interface {
	List(ctx context.Context) ([]domain.AppointmentOption, error)
}

type OptionsRepoImpl struct{ pool *pgxpool.Pool }

func NewOptionsRepo(pool *pgxpool.Pool) *OptionsRepoImpl { return &OptionsRepoImpl{pool: pool} }

func (r *OptionsRepoImpl) List(ctx context.Context) ([]domain.AppointmentOption, error) {
	const q = `SELECT id, name, slots, price_cents FROM appointment_options ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opts := make([]domain.AppointmentOption, 0, 8)
	for rows.Next() {
		var o domain.AppointmentOption
		if err := rows.Scan(&o.ID, &o.Name, &o.Slots, &o.PriceCents); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

var _ OptionsRepo = (*OptionsRepoImpl)(nil)
