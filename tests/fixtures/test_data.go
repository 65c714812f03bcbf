package fixtures

import (
	"fmt"
	"time"
)

// ReservationPayload builds a valid reservation request body. The date lands
// a week out so the not-in-the-past check never trips.
func ReservationPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":            "Alice Smith",
		"email":           UniqueEmail("alice"),
		"phone":           "+5521999999999",
		"date":            time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"time":            "19:30",
		"guests":          4,
		"specialRequests": "window seat",
	}
}

// VerificationPayload builds a valid verification request body.
func VerificationPayload() map[string]interface{} {
	return map[string]interface{}{
		"email": UniqueEmail("alice"),
		"name":  "Alice",
	}
}

// UniqueEmail generates an address that will not collide across test runs.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s+%d@example.com", prefix, time.Now().UnixNano())
}
