package models

import "time"

// Reservation statuses. A cancellation is recorded as a status change, never
// as an edit of the stay dates, so the overlap history stays auditable.
const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// Reservation is a durable, committed booking record. It is created
// atomically by the availability engine and never mutated afterwards.
//
// Invariant: for a given room type, no two non-cancelled reservations have
// overlapping [CheckIn, CheckOut) intervals.
type Reservation struct {
	BookingNumber string    `json:"bookingNumber"`
	RoomType      string    `json:"roomType"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	GuestName     string    `json:"guestName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Guests        int       `json:"guests"`
	TotalPrice    float64   `json:"totalPrice"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RoomType is static reference data describing one bookable room category.
type RoomType struct {
	Name        string  `json:"name"`
	Capacity    int     `json:"capacity"`
	NightlyRate float64 `json:"nightlyRate"`
	Description string  `json:"description,omitempty"`
}
