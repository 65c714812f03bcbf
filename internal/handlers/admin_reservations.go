package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/middleware"
	"github.com/delbi-restaurant/reservations-api/internal/models"
	"github.com/delbi-restaurant/reservations-api/internal/observability"
	"github.com/delbi-restaurant/reservations-api/internal/services"
)

// AdminReservationHandler serves the admin back-office reservation endpoints.
type AdminReservationHandler struct {
	reservations *services.ReservationService
}

// NewAdminReservationHandler wires the admin reservation endpoints.
func NewAdminReservationHandler(reservations *services.ReservationService) *AdminReservationHandler {
	return &AdminReservationHandler{reservations: reservations}
}

// Pagination describes a page of admin listing results
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// ListReservationsResponse is the admin listing envelope
type ListReservationsResponse struct {
	Reservations []bson.M   `json:"reservations"`
	Pagination   Pagination `json:"pagination"`
}

// UpdateReservationResponse reports a status update and whether the customer
// was notified
type UpdateReservationResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	EmailSent bool   `json:"emailSent"`
}

// ListReservations godoc
// @Summary List reservations
// @Description Returns reservations with optional date/status filters and pagination, or a single one by id
// @Tags admin
// @Produce json
// @Param id query string false "Reservation ID"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Security BearerAuth
// @Success 200 {object} ListReservationsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reservations [get]
func (h *AdminReservationHandler) ListReservations(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		reservation, err := h.reservations.Get(c.Request.Context(), id)
		if err != nil {
			h.renderLookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
		return
	}

	docs, err := h.reservations.List(c.Request.Context(), services.ListFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	})
	if err != nil {
		observability.Logger().Error("failed to list reservations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list reservations",
			Code:  CodeInternal,
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	start := (page - 1) * limit
	end := start + limit
	if start > len(docs) {
		start = len(docs)
	}
	if end > len(docs) {
		end = len(docs)
	}

	pages := (len(docs) + limit - 1) / limit
	c.JSON(http.StatusOK, ListReservationsResponse{
		Reservations: docs[start:end],
		Pagination: Pagination{
			Total: len(docs),
			Page:  page,
			Limit: limit,
			Pages: pages,
		},
	})
}

// UpdateReservation godoc
// @Summary Update a reservation status
// @Description Transitions a reservation to a new status and notifies the customer when the status changed
// @Tags admin
// @Accept json
// @Produce json
// @Param data body models.ReservationStatusUpdate true "Reservation id and new status"
// @Security BearerAuth
// @Success 200 {object} UpdateReservationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reservations [put]
func (h *AdminReservationHandler) UpdateReservation(c *gin.Context) {
	var req models.ReservationStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Reservation ID and status are required",
			Code:  CodeInvalidRequest,
		})
		return
	}

	actor := ""
	if claims, ok := middleware.AdminClaims(c); ok {
		actor = claims.Username
	}

	updated, emailSent, err := h.reservations.SetStatus(c.Request.Context(), req.ID, req.Status, actor)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid status value",
				Code:  CodeInvalidStatus,
			})
		case errors.Is(err, models.ErrInvalidID):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid ID format",
				Code:  CodeInvalidID,
			})
		case errors.Is(err, models.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Reservation not found",
				Code:  CodeNotFound,
			})
		default:
			observability.Logger().Error("failed to update reservation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to update reservation",
				Code:  CodeInternal,
			})
		}
		return
	}

	c.JSON(http.StatusOK, UpdateReservationResponse{
		Message:   "Reservation updated successfully",
		Status:    updated.Status,
		EmailSent: emailSent,
	})
}

// deleteRequest carries the admin delete body
type deleteRequest struct {
	ID string `json:"id" binding:"required"`
}

// DeleteReservation godoc
// @Summary Delete a reservation
// @Description Removes a reservation record
// @Tags admin
// @Accept json
// @Produce json
// @Param data body deleteRequest true "Reservation id"
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reservations [delete]
func (h *AdminReservationHandler) DeleteReservation(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Reservation ID is required",
			Code:  CodeInvalidRequest,
		})
		return
	}

	if err := h.reservations.Delete(c.Request.Context(), req.ID); err != nil {
		h.renderLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Reservation deleted successfully"})
}

func (h *AdminReservationHandler) renderLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidID):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid ID format",
			Code:  CodeInvalidID,
		})
	case errors.Is(err, models.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Reservation not found",
			Code:  CodeNotFound,
		})
	default:
		observability.Logger().Error("reservation lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "An error occurred while processing your request",
			Code:  CodeInternal,
		})
	}
}
