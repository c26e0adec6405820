package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationRepo "george/database/repository/reservation"
	roomRepo "george/database/repository/room"
	"george/models"
)

// Quote is the read-only answer to an availability question.
type Quote struct {
	Available  bool            `json:"available"`
	Room       models.RoomType `json:"room"`
	Nights     int             `json:"nights"`
	TotalPrice float64         `json:"totalPrice"`
}

// ReserveRequest carries everything needed to commit a reservation.
type ReserveRequest struct {
	RoomType  string
	CheckIn   time.Time
	CheckOut  time.Time
	GuestName string
	Email     string
	Phone     string
	Guests    int
}

// Engine answers availability questions and commits reservations. All
// overlap atomicity lives in the reservation repository; the engine adds
// validation and pricing on top.
type Engine struct {
	rooms                roomRepo.Repository
	reservations         reservationRepo.Repository
	weekendSurchargeRate float64
}

func NewEngine(rooms roomRepo.Repository, reservations reservationRepo.Repository, weekendSurchargeRate float64) *Engine {
	return &Engine{
		rooms:                rooms,
		reservations:         reservations,
		weekendSurchargeRate: weekendSurchargeRate,
	}
}

// CheckAvailability is side-effect free and may be called any number of
// times; Reserve re-validates, so a stale answer here only costs UX.
func (e *Engine) CheckAvailability(ctx context.Context, roomType string, checkIn, checkOut time.Time) (*Quote, error) {
	room, err := e.lookupRoom(ctx, roomType)
	if err != nil {
		return nil, err
	}
	if !checkOut.After(checkIn) {
		return nil, newValidationError("check-out date", "must be after the check-in date")
	}

	overlapping, err := e.reservations.HasOverlap(ctx, room.Name, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("availability check failed: %w", err)
	}

	return &Quote{
		Available:  !overlapping,
		Room:       *room,
		Nights:     Nights(checkIn, checkOut),
		TotalPrice: StayPrice(room.NightlyRate, e.weekendSurchargeRate, checkIn, checkOut),
	}, nil
}

// Reserve commits the stay. An overlap detected inside the repository's
// atomic check-and-insert comes back as ErrConflict, which callers must
// treat as a normal outcome.
func (e *Engine) Reserve(ctx context.Context, req ReserveRequest) (*models.Reservation, error) {
	room, err := e.lookupRoom(ctx, req.RoomType)
	if err != nil {
		return nil, err
	}
	if err := ValidateStay(room, req.CheckIn, req.CheckOut, req.Guests); err != nil {
		return nil, err
	}

	res := &models.Reservation{
		RoomType:   room.Name,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		GuestName:  req.GuestName,
		Email:      req.Email,
		Phone:      req.Phone,
		Guests:     req.Guests,
		TotalPrice: StayPrice(room.NightlyRate, e.weekendSurchargeRate, req.CheckIn, req.CheckOut),
	}
	if err := e.reservations.Create(ctx, res); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return res, nil
}

// Rooms returns the full room reference list.
func (e *Engine) Rooms(ctx context.Context) ([]models.RoomType, error) {
	return e.rooms.GetAll(ctx)
}

func (e *Engine) lookupRoom(ctx context.Context, roomType string) (*models.RoomType, error) {
	room, err := e.rooms.GetByName(ctx, roomType)
	if err != nil {
		return nil, fmt.Errorf("room lookup failed: %w", err)
	}
	if room == nil {
		return nil, newValidationError("room type", fmt.Sprintf("%q is not one of our rooms", roomType))
	}
	return room, nil
}

// ValidateStay applies the stay constraints shared by the chat workflow and
// the structured booking form.
func ValidateStay(room *models.RoomType, checkIn, checkOut time.Time, guests int) error {
	today := time.Now().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return newValidationError("check-in date", "cannot be in the past")
	}
	if !checkOut.After(checkIn) {
		return newValidationError("check-out date", "must be after the check-in date")
	}
	if guests < 1 {
		return newValidationError("number of guests", "must be at least one")
	}
	if guests > room.Capacity {
		return newValidationError("number of guests",
			fmt.Sprintf("cannot exceed %d for the %s", room.Capacity, room.Name))
	}
	return nil
}
