package application

import (
	"context"
	"fmt"

	"github.com/Rentline-Ops/service-reservation/internal/audit"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportingService serves read-only aggregates and the audit trail.
type ReportingService struct {
	queries reservation.Queries
	audit   audit.Reader
	logger  *zap.Logger
}

// NewReportingService creates a new ReportingService.
func NewReportingService(queries reservation.Queries, auditReader audit.Reader, logger *zap.Logger) *ReportingService {
	return &ReportingService{queries: queries, audit: auditReader, logger: logger}
}

// GetStats aggregates reservations matching the filter. An empty set yields zeros.
func (s *ReportingService) GetStats(ctx context.Context, actor auth.Actor, filter reservation.StatsFilter) (*ReservationStatsDTO, error) {
	if actor.IsOwnerScoped() {
		owner := actor.ID
		filter.PropertyOwnerID = &owner
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	totals, err := s.queries.TotalsByStatus(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reservations: %w", err)
	}

	stats := reservation.StatsFromTotals(totals)
	byStatus := make(map[string]int64, len(stats.ByStatus))
	for k, v := range stats.ByStatus {
		byStatus[string(k)] = v
	}
	return &ReservationStatsDTO{
		TotalReservations: stats.Total,
		ByStatus:          byStatus,
		TotalRevenue:      stats.RevenueCents,
		AverageAmount:     stats.AverageCents,
		OccupancyRate:     stats.OccupancyRate,
	}, nil
}

// ListAudit returns the audit trail of one entity, oldest first.
func (s *ReportingService) ListAudit(ctx context.Context, entityID uuid.UUID) ([]audit.Record, error) {
	if entityID == uuid.Nil {
		return nil, domain.NewValidationError("entity ID is required")
	}
	records, err := s.audit.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	if records == nil {
		records = []audit.Record{}
	}
	return records, nil
}
