package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reservationRepo "george/database/repository/reservation"
	roomRepo "george/database/repository/room"
	"george/models"
)

var bookingNumberPattern = regexp.MustCompile(`^BKG-\d{8}-\d{4}$`)

func newTestEngine() (*Engine, *reservationRepo.MemoryReservationRepo) {
	store := reservationRepo.NewMemoryReservationRepo()
	return NewEngine(roomRepo.NewMemoryRoomRepo(), store, 0), store
}

// futureDate returns a date n days from now at midnight, safely in the future.
func futureDate(n int) time.Time {
	return time.Now().Truncate(24 * time.Hour).AddDate(0, 0, n)
}

func validRequest(checkIn, checkOut time.Time) ReserveRequest {
	return ReserveRequest{
		RoomType:  "Double Room",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		GuestName: "Maria Keller",
		Email:     "maria@example.com",
		Guests:    2,
	}
}

func TestCheckAvailabilityThenReserveUncontended(t *testing.T) {
	engine, _ := newTestEngine()
	in, out := futureDate(30), futureDate(32)

	quote, err := engine.CheckAvailability(context.Background(), "Double Room", in, out)
	require.NoError(t, err)
	assert.True(t, quote.Available)
	assert.Equal(t, 2, quote.Nights)
	assert.InDelta(t, 300.0, quote.TotalPrice, 0.001)

	res, err := engine.Reserve(context.Background(), validRequest(in, out))
	require.NoError(t, err)
	assert.Regexp(t, bookingNumberPattern, res.BookingNumber)
	assert.InDelta(t, 300.0, res.TotalPrice, 0.001)
	assert.Equal(t, "Double Room", res.RoomType)
}

func TestReserveIdenticalRangeConflicts(t *testing.T) {
	engine, _ := newTestEngine()
	in, out := futureDate(30), futureDate(32)

	_, err := engine.Reserve(context.Background(), validRequest(in, out))
	require.NoError(t, err)

	_, err = engine.Reserve(context.Background(), validRequest(in, out))
	assert.ErrorIs(t, err, ErrConflict)
}

// wrappingConflictRepo reports overlaps as a wrapped ErrConflict, the way a
// driver-level repository annotates its errors.
type wrappingConflictRepo struct {
	reservationRepo.MemoryReservationRepo
}

func (r *wrappingConflictRepo) Create(_ context.Context, _ *models.Reservation) error {
	return fmt.Errorf("insert reservation: %w", reservationRepo.ErrConflict)
}

func TestReserveRecognisesWrappedConflict(t *testing.T) {
	engine := NewEngine(roomRepo.NewMemoryRoomRepo(), &wrappingConflictRepo{}, 0)

	_, err := engine.Reserve(context.Background(), validRequest(futureDate(30), futureDate(32)))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestReservePartialOverlapConflicts(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.Reserve(context.Background(), validRequest(futureDate(30), futureDate(33)))
	require.NoError(t, err)

	// Overlaps the tail of the existing stay.
	_, err = engine.Reserve(context.Background(), validRequest(futureDate(32), futureDate(35)))
	assert.ErrorIs(t, err, ErrConflict)

	// Back-to-back stays share a boundary day but no night; allowed.
	_, err = engine.Reserve(context.Background(), validRequest(futureDate(33), futureDate(35)))
	assert.NoError(t, err)
}

func TestReserveDifferentRoomTypesDoNotConflict(t *testing.T) {
	engine, _ := newTestEngine()
	in, out := futureDate(30), futureDate(32)

	_, err := engine.Reserve(context.Background(), validRequest(in, out))
	require.NoError(t, err)

	twin := validRequest(in, out)
	twin.RoomType = "Twin Room"
	_, err = engine.Reserve(context.Background(), twin)
	assert.NoError(t, err)
}

func TestConcurrentReservesExactlyOneWins(t *testing.T) {
	engine, store := newTestEngine()
	in, out := futureDate(30), futureDate(32)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Reserve(context.Background(), validRequest(in, out))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, store.All(), 1)
}

func TestNoStoredOverlapAfterConcurrentMixedRanges(t *testing.T) {
	engine, store := newTestEngine()

	// Many goroutines fighting over a handful of overlapping windows.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := 30 + i%5
			_, _ = engine.Reserve(context.Background(), validRequest(futureDate(start), futureDate(start+2)))
		}(i)
	}
	wg.Wait()

	all := store.All()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.RoomType != b.RoomType {
				continue
			}
			overlap := a.CheckIn.Before(b.CheckOut) && a.CheckOut.After(b.CheckIn)
			assert.False(t, overlap, "stored reservations %s and %s overlap", a.BookingNumber, b.BookingNumber)
		}
	}
}

func TestBookingNumbersUniqueAndSequential(t *testing.T) {
	engine, _ := newTestEngine()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		res, err := engine.Reserve(context.Background(), validRequest(futureDate(30+2*i), futureDate(32+2*i)))
		require.NoError(t, err)
		assert.Regexp(t, bookingNumberPattern, res.BookingNumber)
		assert.False(t, seen[res.BookingNumber], "duplicate booking number %s", res.BookingNumber)
		seen[res.BookingNumber] = true
	}
}

func TestReserveValidation(t *testing.T) {
	engine, _ := newTestEngine()
	var vErr *ValidationError

	// Unknown room type.
	req := validRequest(futureDate(30), futureDate(32))
	req.RoomType = "Penthouse"
	_, err := engine.Reserve(context.Background(), req)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "room type", vErr.Field)

	// Check-out not after check-in.
	_, err = engine.Reserve(context.Background(), validRequest(futureDate(30), futureDate(30)))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "check-out date", vErr.Field)

	// Check-in in the past.
	_, err = engine.Reserve(context.Background(), validRequest(futureDate(-2), futureDate(2)))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "check-in date", vErr.Field)

	// Too many guests for the room.
	req = validRequest(futureDate(30), futureDate(32))
	req.Guests = 3
	_, err = engine.Reserve(context.Background(), req)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "number of guests", vErr.Field)
}

func TestCheckAvailabilityReportsUnavailable(t *testing.T) {
	engine, _ := newTestEngine()
	in, out := futureDate(30), futureDate(32)

	_, err := engine.Reserve(context.Background(), validRequest(in, out))
	require.NoError(t, err)

	quote, err := engine.CheckAvailability(context.Background(), "Double Room", in, out)
	require.NoError(t, err)
	assert.False(t, quote.Available)
}

func TestRoomLookupIsCaseInsensitive(t *testing.T) {
	engine, _ := newTestEngine()

	quote, err := engine.CheckAvailability(context.Background(), "double room", futureDate(30), futureDate(32))
	require.NoError(t, err)
	assert.Equal(t, "Double Room", quote.Room.Name)
}
