package handler

import (
	"github.com/Rentline-Ops/service-reservation/internal/application"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/middleware"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GuestHandler handles HTTP requests for guests.
type GuestHandler struct {
	directory DirectoryService
}

// NewGuestHandler creates a new GuestHandler.
func NewGuestHandler(directory DirectoryService) *GuestHandler {
	return &GuestHandler{directory: directory}
}

// RegisterRoutes registers guest routes.
func (h *GuestHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	guests := r.Group("/api/v1/guests")
	guests.Use(middleware.AuthMiddleware(jwtManager))
	{
		guests.POST("", h.CreateGuest)
		guests.GET("/:id", h.GetGuest)
	}
}

// CreateGuest handles POST /api/v1/guests.
func (h *GuestHandler) CreateGuest(c *gin.Context) {
	var req application.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.directory.CreateGuest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetGuest handles GET /api/v1/guests/:id.
func (h *GuestHandler) GetGuest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid guest ID")
		return
	}

	result, err := h.directory.GetGuest(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
