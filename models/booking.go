package models

import "time"

// Booking draft statuses. The draft is a per-session form that moves
// Collecting -> PendingConfirmation -> Confirmed, or to Abandoned on an
// explicit cancel.
const (
	DraftCollecting          = "collecting"
	DraftPendingConfirmation = "pending_confirmation"
	DraftConfirmed           = "confirmed"
	DraftAbandoned           = "abandoned"
)

// BookingDraft is the in-progress reservation form bound to one session.
// Fields are filled incrementally as the guest supplies them.
type BookingDraft struct {
	GuestName string     `json:"guestName,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	RoomType  string     `json:"roomType,omitempty"`
	CheckIn   *time.Time `json:"checkIn,omitempty"`
	CheckOut  *time.Time `json:"checkOut,omitempty"`
	Guests    int        `json:"guests,omitempty"`
	Status    string     `json:"status"`
}

// MissingFields lists the required fields the guest has not supplied yet,
// in the order they should be asked for.
func (d *BookingDraft) MissingFields() []string {
	var missing []string
	if d.GuestName == "" {
		missing = append(missing, "your full name")
	}
	if d.Email == "" {
		missing = append(missing, "an email address")
	}
	if d.RoomType == "" {
		missing = append(missing, "a room type")
	}
	if d.CheckIn == nil {
		missing = append(missing, "a check-in date")
	}
	if d.CheckOut == nil {
		missing = append(missing, "a check-out date")
	}
	if d.Guests == 0 {
		missing = append(missing, "the number of guests")
	}
	return missing
}

// Complete reports whether every required field has been collected.
func (d *BookingDraft) Complete() bool {
	return len(d.MissingFields()) == 0
}

// BookingFormInput is the structured booking form posted by the UI when the
// guest fills the calendar form instead of finishing the flow in chat.
type BookingFormInput struct {
	GuestName string `json:"guestName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	RoomType  string `json:"roomType" binding:"required"`
	CheckIn   string `json:"checkIn" binding:"required"`
	CheckOut  string `json:"checkOut" binding:"required"`
	Guests    int    `json:"guests" binding:"required"`
}
