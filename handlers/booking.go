package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"george/models"
	"george/services/booking"
	"george/services/notification"
)

// Wired in main before the router starts serving.
var (
	Engine   *booking.Engine
	Drafts   booking.DraftStore
	Notifier notification.Service
)

const dateLayout = "2006-01-02"

// CreateBooking handles POST /api/bookings: the structured form path the UI
// uses when the guest fills the calendar form instead of finishing in chat.
func CreateBooking(c *gin.Context) {
	var input models.BookingFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	checkIn, err := time.Parse(dateLayout, input.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check-in date", "details": err.Error()})
		return
	}
	checkOut, err := time.Parse(dateLayout, input.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check-out date", "details": err.Error()})
		return
	}

	res, err := Engine.Reserve(c.Request.Context(), booking.ReserveRequest{
		RoomType:  input.RoomType,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		GuestName: input.GuestName,
		Email:     input.Email,
		Phone:     input.Phone,
		Guests:    input.Guests,
	})
	var vErr *booking.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "errorKind": models.ErrKindValidation})
		return
	case errors.Is(err, booking.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "the room is already booked for those dates",
			"errorKind": models.ErrKindConflict,
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking", "details": err.Error()})
		return
	}

	if nerr := Notifier.SendBookingConfirmation(c.Request.Context(), res); nerr != nil {
		zap.L().Error("confirmation email failed",
			zap.String("bookingNumber", res.BookingNumber),
			zap.Error(nerr),
		)
	}
	c.JSON(http.StatusCreated, res)
}

// ListRooms handles GET /api/rooms.
func ListRooms(c *gin.Context) {
	rooms, err := Engine.Rooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rooms", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetAvailability handles GET /api/availability?roomType=&checkIn=&checkOut=.
func GetAvailability(c *gin.Context) {
	roomType := c.Query("roomType")
	checkIn, err := time.Parse(dateLayout, c.Query("checkIn"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check-in date", "details": err.Error()})
		return
	}
	checkOut, err := time.Parse(dateLayout, c.Query("checkOut"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check-out date", "details": err.Error()})
		return
	}

	quote, err := Engine.CheckAvailability(c.Request.Context(), roomType, checkIn, checkOut)
	var vErr *booking.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "errorKind": models.ErrKindValidation})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check availability", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}
