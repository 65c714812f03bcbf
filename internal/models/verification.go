package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VerificationCode represents a pending email verification request
type VerificationCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"code"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the code is past its expiry at instant now.
func (v *VerificationCode) Expired(now time.Time) bool {
	return !v.ExpiresAt.After(now)
}

// SendVerificationRequest represents the request body for requesting a verification code
type SendVerificationRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name" binding:"required"`
	// Website is a honeypot field; legitimate clients leave it empty.
	Website string `json:"website"`
}

// VerifyCodeRequest represents the request body for confirming a verification code
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// Constants for verification configuration
const (
	VerificationCodeLength = 6
)
