// Package calendar models per-property, per-day availability.
package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO-8601 calendar date format used on the wire.
const DateLayout = "2006-01-02"

// Status is the availability of one property on one day.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBooked    Status = "BOOKED"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	return s == StatusAvailable || s == StatusBooked
}

// Day is one row of the availability calendar, keyed by (PropertyID, Date).
// ReservationID names the reservation holding a BOOKED day and is nil for
// AVAILABLE days.
type Day struct {
	PropertyID    uuid.UUID  `json:"property_id"`
	Date          time.Time  `json:"date"`
	Status        Status     `json:"status"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Normalize truncates t to midnight UTC of its calendar date.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Days lists every calendar date in the half-open range [from, to).
func Days(from, to time.Time) []time.Time {
	from, to = Normalize(from), Normalize(to)
	if !to.After(from) {
		return nil
	}
	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Fill returns one Day per date in [from, to), taking stored rows where they
// exist and synthesizing AVAILABLE for the rest. Rows are created lazily, so a
// missing row means nobody ever booked that day.
func Fill(propertyID uuid.UUID, from, to time.Time, stored []Day) []Day {
	byDate := make(map[time.Time]Day, len(stored))
	for _, d := range stored {
		byDate[Normalize(d.Date)] = d
	}

	dates := Days(from, to)
	out := make([]Day, 0, len(dates))
	for _, date := range dates {
		if d, ok := byDate[date]; ok {
			d.Date = date
			out = append(out, d)
			continue
		}
		out = append(out, Day{PropertyID: propertyID, Date: date, Status: StatusAvailable})
	}
	return out
}
