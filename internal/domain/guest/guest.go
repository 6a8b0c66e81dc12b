package guest

import (
	"net/mail"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
)

// Guest is the person a reservation is booked for.
type Guest struct {
	id        uuid.UUID
	fullName  string
	email     string
	phone     string
	createdAt time.Time
	updatedAt time.Time
}

// NewGuest creates a guest with validated contact details.
func NewGuest(fullName, email, phone string) (*Guest, error) {
	if fullName == "" {
		return nil, domain.NewValidationError("guest name is required")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.NewValidationError("invalid email address")
		}
	}

	now := time.Now().UTC()
	return &Guest{
		id:        uuid.New(),
		fullName:  fullName,
		email:     email,
		phone:     phone,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Guest from persistence data (no validation).
func Reconstruct(id uuid.UUID, fullName, email, phone string, createdAt, updatedAt time.Time) *Guest {
	return &Guest{
		id:        id,
		fullName:  fullName,
		email:     email,
		phone:     phone,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (g *Guest) ID() uuid.UUID        { return g.id }
func (g *Guest) FullName() string     { return g.fullName }
func (g *Guest) Email() string        { return g.email }
func (g *Guest) Phone() string        { return g.phone }
func (g *Guest) CreatedAt() time.Time { return g.createdAt }
func (g *Guest) UpdatedAt() time.Time { return g.updatedAt }
