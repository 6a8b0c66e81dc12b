package property

import (
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
)

// Property is a rentable unit. Reservations reference it for pricing,
// capacity and ownership.
type Property struct {
	id               uuid.UUID
	ownerID          uuid.UUID
	name             string
	nightlyRateCents int64
	currency         string
	capacity         int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewProperty creates a property with validated fields. A capacity of zero means unlimited.
func NewProperty(ownerID uuid.UUID, name string, nightlyRateCents int64, currency string, capacity int) (*Property, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("property name is required")
	}
	if nightlyRateCents < 0 {
		return nil, domain.NewValidationError("nightly rate cannot be negative")
	}
	if capacity < 0 {
		return nil, domain.NewValidationError("capacity cannot be negative")
	}
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	now := time.Now().UTC()
	return &Property{
		id:               uuid.New(),
		ownerID:          ownerID,
		name:             name,
		nightlyRateCents: nightlyRateCents,
		currency:         currency,
		capacity:         capacity,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Reconstruct rebuilds a Property from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	name string,
	nightlyRateCents int64,
	currency string,
	capacity int,
	createdAt, updatedAt time.Time,
) *Property {
	return &Property{
		id:               id,
		ownerID:          ownerID,
		name:             name,
		nightlyRateCents: nightlyRateCents,
		currency:         currency,
		capacity:         capacity,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (p *Property) ID() uuid.UUID           { return p.id }
func (p *Property) OwnerID() uuid.UUID      { return p.ownerID }
func (p *Property) Name() string            { return p.name }
func (p *Property) NightlyRateCents() int64 { return p.nightlyRateCents }
func (p *Property) Currency() string        { return p.currency }
func (p *Property) Capacity() int           { return p.capacity }
func (p *Property) CreatedAt() time.Time    { return p.createdAt }
func (p *Property) UpdatedAt() time.Time    { return p.updatedAt }

// Accommodates reports whether the property fits the given number of guests.
func (p *Property) Accommodates(guests int) bool {
	return p.capacity == 0 || guests <= p.capacity
}

// IsOwnedBy reports whether userID owns the property.
func (p *Property) IsOwnedBy(userID uuid.UUID) bool {
	return p.ownerID == userID
}
