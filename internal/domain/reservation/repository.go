package reservation

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for reservation aggregates.
type Repository interface {
	OverlapFinder

	// FindByID retrieves a reservation by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)

	// FindByCode retrieves a reservation by its human-readable code.
	FindByCode(ctx context.Context, code string) (*Reservation, error)

	// Save persists a new reservation.
	Save(ctx context.Context, r *Reservation) error

	// Update persists changes to an existing reservation with optimistic locking.
	Update(ctx context.Context, r *Reservation) error

	// Delete removes a reservation permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Queries is the read side over the reservation set.
type Queries interface {
	// List returns one page of reservations matching the filter and the total match count.
	List(ctx context.Context, filter ListFilter) ([]View, int64, error)

	// TotalsByStatus returns the count and amount sum per booking status,
	// read from a single snapshot of the reservation set.
	TotalsByStatus(ctx context.Context, filter StatsFilter) ([]StatusTotal, error)
}
