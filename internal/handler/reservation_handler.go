package handler

import (
	"context"

	"github.com/Rentline-Ops/service-reservation/internal/application"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/middleware"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReservationService is the reservation use-case surface the handler drives.
type ReservationService interface {
	Create(ctx context.Context, actor auth.Actor, req application.CreateReservationRequest) (*application.ReservationDTO, error)
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*application.ReservationDTO, error)
	List(ctx context.Context, actor auth.Actor, filter reservation.ListFilter) (*domain.PaginatedResult[application.ReservationDTO], error)
	Update(ctx context.Context, actor auth.Actor, id uuid.UUID, req application.UpdateReservationRequest) (*application.ReservationDTO, error)
	Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	UpdateStatus(ctx context.Context, actor auth.Actor, id uuid.UUID, req application.UpdateStatusRequest) (*application.ReservationDTO, error)
	Confirm(ctx context.Context, actor auth.Actor, id uuid.UUID) (*application.ReservationDTO, error)
	Cancel(ctx context.Context, actor auth.Actor, id uuid.UUID, req application.CancelReservationRequest) (*application.ReservationDTO, error)
	CheckIn(ctx context.Context, actor auth.Actor, id uuid.UUID) (*application.ReservationDTO, error)
	CheckOut(ctx context.Context, actor auth.Actor, id uuid.UUID) (*application.ReservationDTO, error)
	MarkNoShow(ctx context.Context, actor auth.Actor, id uuid.UUID) (*application.ReservationDTO, error)
	RecordPayment(ctx context.Context, actor auth.Actor, id uuid.UUID, req application.RecordPaymentRequest) (*application.ReservationDTO, error)
}

// ReservationHandler handles HTTP requests for reservation operations.
type ReservationHandler struct {
	service ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(service ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// RegisterRoutes registers all reservation routes on the given router group.
func (h *ReservationHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	reservations := r.Group("/api/v1/reservations")
	reservations.Use(authMW)
	{
		reservations.POST("", h.CreateReservation)
		reservations.GET("", h.ListReservations)
		reservations.GET("/:id", h.GetReservation)
		reservations.PATCH("/:id", h.UpdateReservation)
		reservations.DELETE("/:id", middleware.RequireRole(auth.RoleAdmin, auth.RoleManager), h.DeleteReservation)
		reservations.PATCH("/:id/status", h.UpdateStatus)
		reservations.POST("/:id/confirm", h.ConfirmReservation)
		reservations.POST("/:id/cancel", h.CancelReservation)
		reservations.POST("/:id/check-in", h.CheckIn)
		reservations.POST("/:id/check-out", h.CheckOut)
		reservations.POST("/:id/no-show", h.MarkNoShow)
		reservations.POST("/:id/payments", h.RecordPayment)
	}
}

// CreateReservation handles POST /api/v1/reservations.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListReservations handles GET /api/v1/reservations.
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetReservation handles GET /api/v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	actor, id, ok := actorAndID(c, "invalid reservation ID")
	if !ok {
		return
	}

	result, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateReservation handles PATCH /api/v1/reservations/:id.
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	actor, id, ok := actorAndID(c, "invalid reservation ID")
	if !ok {
		return
	}

	var req application.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteReservation handles DELETE /api/v1/reservations/:id.
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	actor, id, ok := actorAndID(c, "invalid reservation ID")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UpdateStatus handles PATCH /api/v1/reservations/:id/status.
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	actor, id, ok := actorAndID(c, "invalid reservation ID")
	if !ok {
		return
	}

	var req application.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelReservation handles POST /api/v1/reservations/:id/cancel.
// The body is optional.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	actor, id, ok := actorAndID(c, "invalid reservation ID")
	if !ok {
		return
	}

	var req application.CancelReservationRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.service.Cancel(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RecordPayment handles POST /api/v1/reservations/:id/payments.
func (h *ReservationHandler) RecordPayment(c *gin.Context) {
	actor, id, ok := actorAndID(c, "invalid reservation ID")
	if !ok {
		return
	}

	var req application.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RecordPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ConfirmReservation handles POST /api/v1/reservations/:id/confirm.
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	h.lifecycle(c, h.service.Confirm)
}

// CheckIn handles POST /api/v1/reservations/:id/check-in.
func (h *ReservationHandler) CheckIn(c *gin.Context) {
	h.lifecycle(c, h.service.CheckIn)
}

// CheckOut handles POST /api/v1/reservations/:id/check-out.
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	h.lifecycle(c, h.service.CheckOut)
}

// MarkNoShow handles POST /api/v1/reservations/:id/no-show.
func (h *ReservationHandler) MarkNoShow(c *gin.Context) {
	h.lifecycle(c, h.service.MarkNoShow)
}

type lifecycleOp func(ctx context.Context, actor auth.Actor, id uuid.UUID) (*application.ReservationDTO, error)

// lifecycle runs a body-less transition on the reservation named by :id.
func (h *ReservationHandler) lifecycle(c *gin.Context, op lifecycleOp) {
	actor, id, ok := actorAndID(c, "invalid reservation ID")
	if !ok {
		return
	}

	result, err := op(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
