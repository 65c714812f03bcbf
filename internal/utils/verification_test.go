package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delbi-restaurant/reservations-api/internal/models"
)

func TestGenerateVerificationCode_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateVerificationCode()
		require.Len(t, code, models.VerificationCodeLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
		}
	}
}

func TestGenerateVerificationCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateVerificationCode()] = true
	}
	// 50 draws from a million-value space colliding down to a handful
	// would mean the generator is broken.
	assert.Greater(t, len(seen), 40)
}
