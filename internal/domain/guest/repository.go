package guest

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for guests.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Guest, error)
	Save(ctx context.Context, g *Guest) error
}
