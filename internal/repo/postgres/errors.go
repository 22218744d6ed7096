package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateBooking is returned when an insert trips the composite
	// unique index on (appointment_date, email, treatment).
	ErrDuplicateBooking = errors.New("duplicate booking")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
