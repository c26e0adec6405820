package booking

import "time"

// Nights returns the number of nights in [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// StayPrice computes nightlyRate x nights, applying the weekend surcharge to
// Friday and Saturday nights. The computation is deterministic from the room
// reference data and the date range alone.
func StayPrice(nightlyRate, weekendSurchargeRate float64, checkIn, checkOut time.Time) float64 {
	total := 0.0
	for night := checkIn; night.Before(checkOut); night = night.AddDate(0, 0, 1) {
		price := nightlyRate
		if wd := night.Weekday(); wd == time.Friday || wd == time.Saturday {
			price *= 1 + weekendSurchargeRate
		}
		total += price
	}
	return total
}
