package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"george/models"
)

// maxCreateRetries bounds retries when a booking number sequence collides.
// A collision only happens when two transactions for different room types
// allocate the same daily sequence, so a couple of retries is plenty.
const maxCreateRetries = 3

// PostgresReservationRepo stores reservations in the reservations table.
type PostgresReservationRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresReservationRepo(pool *pgxpool.Pool) *PostgresReservationRepo {
	return &PostgresReservationRepo{pool: pool}
}

// Create reserves the stay in one transaction. The advisory lock serializes
// writers per room type, the overlap query re-validates the invariant under
// that lock, and the insert commits with a freshly allocated booking number.
// A unique violation on the booking number is retried, never surfaced.
func (r *PostgresReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	var lastErr error
	for attempt := 0; attempt < maxCreateRetries; attempt++ {
		err := r.tryCreate(ctx, res)
		if err == nil || errors.Is(err, ErrConflict) {
			return err
		}
		if !isUniqueViolation(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("booking number allocation kept colliding: %w", lastErr)
}

func (r *PostgresReservationRepo) tryCreate(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("could not begin reservation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent reserves for the same room type.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, res.RoomType); err != nil {
		return fmt.Errorf("failed to take room lock: %w", err)
	}

	var overlapping bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE room_type = $1
			  AND status <> 'cancelled'
			  AND check_in < $3
			  AND check_out > $2
		)`, res.RoomType, res.CheckIn, res.CheckOut,
	).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("overlap check failed: %w", err)
	}
	if overlapping {
		return ErrConflict
	}

	now := time.Now()
	var seq int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(split_part(booking_number, '-', 3)::int), 0) + 1
		FROM reservations
		WHERE booking_number LIKE 'BKG-' || $1 || '-%'`,
		now.Format("20060102"),
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("booking number sequence query failed: %w", err)
	}

	res.BookingNumber = FormatBookingNumber(now, seq)
	res.Status = models.ReservationConfirmed
	res.CreatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO reservations
			(booking_number, room_type, check_in, check_out, guest_name, email, phone, guests, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		res.BookingNumber, res.RoomType, res.CheckIn, res.CheckOut,
		res.GuestName, res.Email, res.Phone, res.Guests, res.TotalPrice,
		res.Status, res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reservation commit failed: %w", err)
	}
	return nil
}

func (r *PostgresReservationRepo) HasOverlap(ctx context.Context, roomType string, checkIn, checkOut time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var overlapping bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE room_type = $1
			  AND status <> 'cancelled'
			  AND check_in < $3
			  AND check_out > $2
		)`, roomType, checkIn, checkOut,
	).Scan(&overlapping)
	if err != nil {
		return false, fmt.Errorf("overlap check failed: %w", err)
	}
	return overlapping, nil
}

func (r *PostgresReservationRepo) GetByBookingNumber(ctx context.Context, bookingNumber string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	err := r.pool.QueryRow(ctx, `
		SELECT booking_number, room_type, check_in, check_out, guest_name, email, phone, guests, total_price, status, created_at
		FROM reservations WHERE booking_number = $1`, bookingNumber,
	).Scan(
		&res.BookingNumber, &res.RoomType, &res.CheckIn, &res.CheckOut,
		&res.GuestName, &res.Email, &res.Phone, &res.Guests, &res.TotalPrice,
		&res.Status, &res.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservation %q: %w", bookingNumber, err)
	}
	return &res, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
