package reservation

import (
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
)

const day = 24 * time.Hour

// Stay is the half-open date range [CheckIn, CheckOut) of a reservation.
type Stay struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// NewStay normalizes both dates to UTC midnight and requires CheckOut after CheckIn.
func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return Stay{}, domain.NewValidationError("check-in and check-out dates are required")
	}
	s := Stay{CheckIn: calendar.Normalize(checkIn), CheckOut: calendar.Normalize(checkOut)}
	if !s.CheckOut.After(s.CheckIn) {
		return Stay{}, domain.NewValidationError("check-out must be after check-in")
	}
	return s, nil
}

// Nights is the stay length in whole days, rounded up.
func (s Stay) Nights() int {
	d := s.CheckOut.Sub(s.CheckIn)
	if d <= 0 {
		return 0
	}
	n := int(d / day)
	if d%day != 0 {
		n++
	}
	return n
}

// Overlaps reports whether two stays share at least one night. A check-out
// on the same date as the other stay's check-in is not an overlap.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && s.CheckOut.After(other.CheckIn)
}

// Days lists the nights of the stay.
func (s Stay) Days() []time.Time {
	return calendar.Days(s.CheckIn, s.CheckOut)
}

// Equal reports whether both stays cover the same dates.
func (s Stay) Equal(other Stay) bool {
	return s.CheckIn.Equal(other.CheckIn) && s.CheckOut.Equal(other.CheckOut)
}
