package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/antispam"
	"github.com/delbi-restaurant/reservations-api/internal/models"
	"github.com/delbi-restaurant/reservations-api/internal/observability"
	"github.com/delbi-restaurant/reservations-api/internal/services"
	"github.com/delbi-restaurant/reservations-api/internal/utils"
)

// ReservationHandler serves the public reservation workflow endpoints.
type ReservationHandler struct {
	reservations *services.ReservationService
	verification *services.VerificationService
	guard        *antispam.SessionGuard
	// fallback marks that writes land in the in-memory store, so responses
	// can carry a visible warning in non-production.
	fallback bool
}

// NewReservationHandler wires the public reservation endpoints.
func NewReservationHandler(reservations *services.ReservationService, verification *services.VerificationService, guard *antispam.SessionGuard, fallback bool) *ReservationHandler {
	return &ReservationHandler{
		reservations: reservations,
		verification: verification,
		guard:        guard,
		fallback:     fallback,
	}
}

// SendVerificationResponse is returned when a verification code was sent
type SendVerificationResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// SendVerification godoc
// @Summary Request a reservation verification code
// @Description Validates the contact details and emails a 6-digit verification code
// @Tags reservations
// @Accept json
// @Produce json
// @Param data body models.SendVerificationRequest true "Customer email and name"
// @Success 200 {object} SendVerificationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reservations/verification [post]
func (h *ReservationHandler) SendVerification(c *gin.Context) {
	var req models.SendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Email and name are required",
			Code:  CodeInvalidRequest,
		})
		return
	}

	result := utils.NewValidationResult()
	if !utils.ValidateName(req.Name) {
		result.AddError("name", "name must be 2-50 alphabetic characters")
	}
	if !utils.ValidateEmail(req.Email) {
		result.AddError("email", "invalid email address")
	}
	if !result.IsValid {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid contact details",
			Code:   CodeValidation,
			Fields: result.Errors,
		})
		return
	}

	// The guard runs after validation so rejected fields never consume an
	// attempt or start the cooldown.
	if decision := h.guard.Check(c.Request.Context(), c.ClientIP(), req.Website); decision != antispam.Proceed {
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "Too many submissions, please try again later",
			Code:  CodeRateLimited,
		})
		return
	}

	if _, err := h.verification.IssueCode(c.Request.Context(), req.Email, req.Name); err != nil {
		if errors.Is(err, models.ErrDeliveryFailed) {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Could not send verification code",
				Code:  CodeDeliveryFailed,
			})
			return
		}
		observability.Logger().Error("failed to issue verification code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Could not store verification code",
			Code:  CodeInternal,
		})
		return
	}

	c.JSON(http.StatusOK, SendVerificationResponse{
		Message: "Verification code sent successfully",
		Email:   req.Email,
	})
}

// ConfirmVerification godoc
// @Summary Confirm a reservation verification code
// @Description Validates the code sent to the customer's email address
// @Tags reservations
// @Accept json
// @Produce json
// @Param data body models.VerifyCodeRequest true "Email and verification code"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reservations/verification/confirm [post]
func (h *ReservationHandler) ConfirmVerification(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Email and code are required",
			Code:  CodeInvalidRequest,
		})
		return
	}

	if err := h.verification.VerifyCode(c.Request.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, models.ErrCodeNotFound),
			errors.Is(err, models.ErrCodeExpired),
			errors.Is(err, models.ErrCodeMismatch):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid or expired verification code",
				Code:  CodeInvalid,
			})
		default:
			observability.Logger().Error("verification lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to validate verification code",
				Code:  CodeInternal,
			})
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Verification successful"})
}

// CreateReservationResponse is returned when a reservation was stored
type CreateReservationResponse struct {
	Message     string              `json:"message"`
	Reservation *models.Reservation `json:"reservation"`
	Warning     string              `json:"warning,omitempty"`
}

// CreateReservation godoc
// @Summary Create a reservation
// @Description Persists a reservation in pending status after re-validating all fields
// @Tags reservations
// @Accept json
// @Produce json
// @Param data body models.ReservationInput true "Reservation details"
// @Success 201 {object} CreateReservationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var input models.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Missing required reservation fields",
			Code:  CodeInvalidRequest,
		})
		return
	}

	result := utils.ValidateReservationInput(input, time.Now())
	if !result.IsValid {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid reservation details",
			Code:   CodeValidation,
			Fields: result.Errors,
		})
		return
	}

	reservation, err := h.reservations.Create(c.Request.Context(), input)
	if err != nil {
		observability.Logger().Error("failed to save reservation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to save reservation",
			Code:  CodePersistence,
		})
		return
	}

	resp := CreateReservationResponse{
		Message:     "Reservation saved successfully",
		Reservation: reservation,
	}
	if h.fallback {
		resp.Warning = "Saved in memory only - database connection failed"
	}
	c.JSON(http.StatusCreated, resp)
}
