package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Rentline-Ops/service-reservation/internal/application"
	"github.com/Rentline-Ops/service-reservation/internal/audit"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/middleware"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/response"
)

// ReportingService serves reservation stats and the audit trail.
type ReportingService interface {
	GetStats(ctx context.Context, actor auth.Actor, filter reservation.StatsFilter) (*application.ReservationStatsDTO, error)
	ListAudit(ctx context.Context, entityID uuid.UUID) ([]audit.Record, error)
}

// AdminHandler handles admin HTTP requests for reporting.
type AdminHandler struct {
	service ReportingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service ReportingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin reporting routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/stats/reservations", h.ReservationStats)
		admin.GET("/audit/:entityId", h.AuditTrail)
	}
}

// ReservationStats handles GET /api/v1/admin/stats/reservations.
func (h *AdminHandler) ReservationStats(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	filter, err := parseStatsFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// AuditTrail handles GET /api/v1/admin/audit/:entityId.
func (h *AdminHandler) AuditTrail(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("entityId"))
	if err != nil {
		response.BadRequest(c, "invalid entity ID")
		return
	}

	records, err := h.service.ListAudit(c.Request.Context(), entityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, records)
}
