package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidStatus(t *testing.T) {
	for _, status := range ValidStatuses {
		assert.True(t, IsValidStatus(status), "status %q", status)
	}

	for _, status := range []string{"", "Pending", "PENDING", "archived", "done"} {
		assert.False(t, IsValidStatus(status), "status %q", status)
	}
}

func TestReservation_JSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(Reservation{
		Name:            "Alice Smith",
		SpecialRequests: "window seat",
		Status:          StatusPending,
	})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))

	// Clients consume camelCase field names.
	assert.Contains(t, doc, "specialRequests")
	assert.Contains(t, doc, "createdAt")
	assert.NotContains(t, doc, "special_requests")
}
