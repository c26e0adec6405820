package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"george/models"
)

func TestConfirmationBody(t *testing.T) {
	res := &models.Reservation{
		BookingNumber: "BKG-20260610-0001",
		RoomType:      "Double Room",
		CheckIn:       time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
		GuestName:     "Maria Keller",
		Email:         "maria@example.com",
		Guests:        2,
		TotalPrice:    300,
	}

	body := confirmationBody(res)

	assert.Contains(t, body, "Dear Maria Keller")
	assert.Contains(t, body, "Booking Number: BKG-20260610-0001")
	assert.Contains(t, body, "Room Type: Double Room")
	assert.Contains(t, body, "Check-in: June 10, 2026")
	assert.Contains(t, body, "Check-out: June 12, 2026")
	assert.Contains(t, body, "Total Price: EUR 300.00")
}

func TestReminderBody(t *testing.T) {
	res := &models.Reservation{
		BookingNumber: "BKG-20260610-0001",
		RoomType:      "Double Room",
		CheckIn:       time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
		GuestName:     "Maria Keller",
	}

	body := reminderBody(res)

	assert.Contains(t, body, "Dear Maria Keller")
	assert.Contains(t, body, "welcoming you to Chez Govinda tomorrow")
	assert.Contains(t, body, "Booking Number: BKG-20260610-0001")
	assert.Contains(t, body, "Check-in: June 10, 2026 (from 3 PM)")
}
