package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reservation statuses visible to customers and admins.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ValidStatuses lists every status a reservation may hold.
var ValidStatuses = []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// IsValidStatus reports whether s is one of the four reservation statuses.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Reservation represents a dining reservation record
type Reservation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	Date            string             `bson:"date" json:"date"`
	Time            string             `bson:"time" json:"time"`
	Guests          int                `bson:"guests" json:"guests"`
	SpecialRequests string             `bson:"special_requests,omitempty" json:"specialRequests,omitempty"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
	LastUpdatedBy   string             `bson:"last_updated_by,omitempty" json:"lastUpdatedBy,omitempty"`
}

// ReservationInput represents the request body for creating a reservation
type ReservationInput struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	Guests          int    `json:"guests" binding:"required"`
	SpecialRequests string `json:"specialRequests"`
}

// ReservationStatusUpdate represents the admin request body for updating a reservation
type ReservationStatusUpdate struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}
