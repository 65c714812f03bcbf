package handlers

import "github.com/delbi-restaurant/reservations-api/internal/utils"

// Machine-readable error kinds carried alongside the human-readable message.
const (
	CodeValidation     = "validation_error"
	CodeRateLimited    = "rate_limited"
	CodeDeliveryFailed = "code_delivery_failed"
	CodeInvalid        = "code_invalid"
	CodePersistence    = "persistence_error"
	CodeNotFound       = "not_found"
	CodeInvalidID      = "invalid_id"
	CodeInvalidStatus  = "invalid_status"
	CodeInternal       = "internal_error"
	CodeInvalidRequest = "invalid_request"
)

// SuccessResponse is the generic success envelope
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the generic error envelope
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Code    string                  `json:"code,omitempty"`
	Details string                  `json:"details,omitempty"`
	Fields  []utils.ValidationError `json:"fields,omitempty"`
}
