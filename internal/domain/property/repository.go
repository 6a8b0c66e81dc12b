package property

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for properties.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	Save(ctx context.Context, p *Property) error
}
