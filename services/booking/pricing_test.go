package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	assert.Equal(t, 2, Nights(date(2026, 6, 10), date(2026, 6, 12)))
	assert.Equal(t, 1, Nights(date(2026, 6, 10), date(2026, 6, 11)))
	assert.Equal(t, 7, Nights(date(2026, 6, 10), date(2026, 6, 17)))
}

func TestStayPriceWeekdayNights(t *testing.T) {
	// June 10-12 2026 covers Wednesday and Thursday nights.
	total := StayPrice(150, 0.25, date(2026, 6, 10), date(2026, 6, 12))
	assert.InDelta(t, 300.0, total, 0.001)
}

func TestStayPriceWeekendSurcharge(t *testing.T) {
	// June 12-14 2026 covers Friday and Saturday nights.
	total := StayPrice(100, 0.25, date(2026, 6, 12), date(2026, 6, 14))
	assert.InDelta(t, 250.0, total, 0.001)
}

func TestStayPriceZeroSurchargeIsFlatRate(t *testing.T) {
	// A full week at a flat rate, weekend nights included.
	total := StayPrice(150, 0, date(2026, 6, 8), date(2026, 6, 15))
	assert.InDelta(t, 1050.0, total, 0.001)
}
