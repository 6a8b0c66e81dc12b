package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists availability days.
type Repository interface {
	// MarkRange sets every day in [checkIn, checkOut) to status on behalf of
	// reservationID. Marking BOOKED fails with a conflict error if any day is
	// held by another blocking reservation. Marking AVAILABLE only releases
	// days held by reservationID. Both directions are idempotent.
	MarkRange(ctx context.Context, propertyID, reservationID uuid.UUID, checkIn, checkOut time.Time, status Status) error

	// FindRange returns the stored rows for [from, to), ordered by date.
	FindRange(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]Day, error)
}
