package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/delbi-restaurant/reservations-api/internal/models"
)

// GenerateVerificationCode generates a uniformly random 6-digit verification code
func GenerateVerificationCode() string {
	code := ""
	for i := 0; i < models.VerificationCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand failing means the platform RNG is broken
			panic(fmt.Sprintf("random source unavailable: %v", err))
		}
		code += n.String()
	}
	return code
}
