package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"george/models"
)

// ErrConflict is returned by Create when the requested stay overlaps an
// existing reservation for the same room type. Losing this race is a normal
// outcome for the caller, not a fault.
var ErrConflict = errors.New("requested dates conflict with an existing reservation")

// Repository persists committed reservations.
//
// Create must be atomic with respect to the overlap invariant: the overlap
// re-check, the booking number allocation and the insert happen as one
// indivisible step, so two concurrent creates for overlapping stays on the
// same room type can never both succeed.
type Repository interface {
	Create(ctx context.Context, res *models.Reservation) error
	HasOverlap(ctx context.Context, roomType string, checkIn, checkOut time.Time) (bool, error)
	GetByBookingNumber(ctx context.Context, bookingNumber string) (*models.Reservation, error)
}

// FormatBookingNumber renders a booking reference as BKG-YYYYMMDD-XXXX.
func FormatBookingNumber(day time.Time, seq int) string {
	return fmt.Sprintf("BKG-%s-%04d", day.Format("20060102"), seq)
}
