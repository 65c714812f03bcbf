package models

import "errors"

// Error constants for the verification code store
var (
	ErrCodeNotFound   = errors.New("verification code not found")
	ErrCodeExpired    = errors.New("verification code expired")
	ErrCodeMismatch   = errors.New("verification code mismatch")
	ErrDeliveryFailed = errors.New("verification code could not be delivered")
)

// Error constants for reservation operations
var (
	ErrInvalidStatus       = errors.New("invalid reservation status")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidID           = errors.New("invalid reservation ID")
)
