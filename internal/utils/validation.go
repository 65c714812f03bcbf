package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/delbi-restaurant/reservations-api/internal/models"
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid: true,
		Errors:  []ValidationError{},
	}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
)

// Bounds for the reservation party size.
const (
	MinGuests = 1
	MaxGuests = 10
)

// DateLayout is the calendar date format reservations use.
const DateLayout = "2006-01-02"

// ValidateName checks the customer name format.
func ValidateName(name string) bool {
	return nameRegex.MatchString(name)
}

// ValidateEmail checks the email address format.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhone checks the phone number format: at least 10 digits with an
// optional leading +, spaces and dashes allowed.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidateReservationInput validates a reservation submission. now anchors
// the not-in-the-past date check.
func ValidateReservationInput(input models.ReservationInput, now time.Time) *ValidationResult {
	result := NewValidationResult()

	if !ValidateName(strings.TrimSpace(input.Name)) {
		result.AddError("name", "name must be 2-50 alphabetic characters")
	}
	if !ValidateEmail(input.Email) {
		result.AddError("email", "invalid email address")
	}
	if !ValidatePhone(input.Phone) {
		result.AddError("phone", "invalid phone number")
	}

	if strings.TrimSpace(input.Date) == "" {
		result.AddError("date", "date is required")
	} else if date, err := time.ParseInLocation(DateLayout, input.Date, now.Location()); err != nil {
		result.AddError("date", "date must use the YYYY-MM-DD format")
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if date.Before(today) {
			result.AddError("date", "date must not be in the past")
		}
	}

	if strings.TrimSpace(input.Time) == "" {
		result.AddError("time", "time is required")
	}

	if input.Guests < MinGuests || input.Guests > MaxGuests {
		result.AddError("guests", fmt.Sprintf("guests must be between %d and %d", MinGuests, MaxGuests))
	}

	return result
}
