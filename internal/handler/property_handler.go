package handler

import (
	"context"

	"github.com/Rentline-Ops/service-reservation/internal/application"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/middleware"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DirectoryService registers and looks up properties and guests.
type DirectoryService interface {
	CreateProperty(ctx context.Context, actor auth.Actor, req application.CreatePropertyRequest) (*application.PropertyDTO, error)
	GetProperty(ctx context.Context, actor auth.Actor, id uuid.UUID) (*application.PropertyDTO, error)
	CreateGuest(ctx context.Context, req application.CreateGuestRequest) (*application.GuestDTO, error)
	GetGuest(ctx context.Context, id uuid.UUID) (*application.GuestDTO, error)
}

// CalendarService reads a property's availability calendar.
type CalendarService interface {
	GetCalendar(ctx context.Context, actor auth.Actor, propertyID uuid.UUID, from, to string) ([]application.CalendarDayDTO, error)
}

// PropertyHandler handles HTTP requests for properties and their calendars.
type PropertyHandler struct {
	directory DirectoryService
	calendar  CalendarService
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(directory DirectoryService, calendar CalendarService) *PropertyHandler {
	return &PropertyHandler{directory: directory, calendar: calendar}
}

// RegisterRoutes registers property routes.
func (h *PropertyHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	properties := r.Group("/api/v1/properties")
	properties.Use(middleware.AuthMiddleware(jwtManager))
	{
		properties.POST("", middleware.RequireRole(auth.RoleAdmin, auth.RoleManager, auth.RoleOwner), h.CreateProperty)
		properties.GET("/:id", h.GetProperty)
		properties.GET("/:id/calendar", h.GetCalendar)
	}
}

// CreateProperty handles POST /api/v1/properties.
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.directory.CreateProperty(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetProperty handles GET /api/v1/properties/:id.
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	actor, id, ok := actorAndID(c, "invalid property ID")
	if !ok {
		return
	}

	result, err := h.directory.GetProperty(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetCalendar handles GET /api/v1/properties/:id/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *PropertyHandler) GetCalendar(c *gin.Context) {
	actor, id, ok := actorAndID(c, "invalid property ID")
	if !ok {
		return
	}

	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, "from and to are required")
		return
	}

	days, err := h.calendar.GetCalendar(c.Request.Context(), actor, id, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, days)
}
