package reservationRepo

import (
	"context"
	"sync"
	"time"

	"george/models"
)

// MemoryReservationRepo keeps reservations in memory with the same atomicity
// guarantees as the Postgres implementation, serialized by a mutex. Used in
// tests and when running without a database.
type MemoryReservationRepo struct {
	mu           sync.Mutex
	reservations []models.Reservation
	daySequence  map[string]int
}

func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{daySequence: make(map[string]int)}
}

func (r *MemoryReservationRepo) Create(_ context.Context, res *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.overlapsLocked(res.RoomType, res.CheckIn, res.CheckOut) {
		return ErrConflict
	}

	now := time.Now()
	day := now.Format("20060102")
	r.daySequence[day]++
	res.BookingNumber = FormatBookingNumber(now, r.daySequence[day])
	res.Status = models.ReservationConfirmed
	res.CreatedAt = now

	r.reservations = append(r.reservations, *res)
	return nil
}

func (r *MemoryReservationRepo) HasOverlap(_ context.Context, roomType string, checkIn, checkOut time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlapsLocked(roomType, checkIn, checkOut), nil
}

func (r *MemoryReservationRepo) GetByBookingNumber(_ context.Context, bookingNumber string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reservations {
		if r.reservations[i].BookingNumber == bookingNumber {
			res := r.reservations[i]
			return &res, nil
		}
	}
	return nil, nil
}

// Cancel marks a stored reservation cancelled, freeing its dates.
func (r *MemoryReservationRepo) Cancel(_ context.Context, bookingNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reservations {
		if r.reservations[i].BookingNumber == bookingNumber {
			r.reservations[i].Status = models.ReservationCancelled
			return nil
		}
	}
	return nil
}

// All returns a snapshot of every stored reservation.
func (r *MemoryReservationRepo) All() []models.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Reservation, len(r.reservations))
	copy(out, r.reservations)
	return out
}

func (r *MemoryReservationRepo) overlapsLocked(roomType string, checkIn, checkOut time.Time) bool {
	for _, existing := range r.reservations {
		if existing.RoomType != roomType || existing.Status == models.ReservationCancelled {
			continue
		}
		if existing.CheckIn.Before(checkOut) && existing.CheckOut.After(checkIn) {
			return true
		}
	}
	return false
}
