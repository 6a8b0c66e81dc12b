package reservation

import (
	"context"

	"github.com/google/uuid"
)

// OverlapFinder loads reservations whose stay may overlap a candidate range.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, propertyID uuid.UUID, stay Stay, excludeID *uuid.UUID) ([]*Reservation, error)
}

// Conflicts reports whether existing blocks the candidate stay on propertyID.
// Reservations that no longer hold dates, or that carry the excluded id, never conflict.
func Conflicts(existing *Reservation, propertyID uuid.UUID, stay Stay, excludeID *uuid.UUID) bool {
	if existing == nil || existing.PropertyID() != propertyID {
		return false
	}
	if excludeID != nil && existing.ID() == *excludeID {
		return false
	}
	if !existing.IsBlocking() {
		return false
	}
	return existing.Stay().Overlaps(stay)
}

// ConflictChecker decides whether a stay can be booked on a property.
type ConflictChecker struct {
	finder OverlapFinder
}

// NewConflictChecker creates a new ConflictChecker.
func NewConflictChecker(finder OverlapFinder) *ConflictChecker {
	return &ConflictChecker{finder: finder}
}

// Conflicting returns the reservations that block the stay.
func (c *ConflictChecker) Conflicting(ctx context.Context, propertyID uuid.UUID, stay Stay, excludeID *uuid.UUID) ([]*Reservation, error) {
	candidates, err := c.finder.FindOverlapping(ctx, propertyID, stay, excludeID)
	if err != nil {
		return nil, err
	}
	var out []*Reservation
	for _, r := range candidates {
		if Conflicts(r, propertyID, stay, excludeID) {
			out = append(out, r)
		}
	}
	return out, nil
}

// HasConflict reports whether any blocking reservation overlaps the stay.
func (c *ConflictChecker) HasConflict(ctx context.Context, propertyID uuid.UUID, stay Stay, excludeID *uuid.UUID) (bool, error) {
	found, err := c.Conflicting(ctx, propertyID, stay, excludeID)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}
