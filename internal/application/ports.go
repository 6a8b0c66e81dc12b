package application

import (
	"context"

	"github.com/Rentline-Ops/service-reservation/internal/audit"
	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/domain/guest"
	"github.com/Rentline-Ops/service-reservation/internal/domain/property"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
)

// Repositories groups the write-side repositories. Inside UnitOfWork.Do
// they share one transaction.
type Repositories struct {
	Reservations reservation.Repository
	Calendar     calendar.Repository
	Properties   property.Repository
	Guests       guest.Repository
}

// UnitOfWork runs fn in a single transaction. Any error returned by fn
// rolls back every write made through repos.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Auditor receives one record per committed mutation. It must not fail the caller.
type Auditor interface {
	Record(ctx context.Context, rec audit.Record)
}
