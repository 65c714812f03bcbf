package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already E.164", "+5521999999999", "+5521999999999"},
		{"formatted international", "+55 21 99999-9999", "+5521999999999"},
		{"US number with dashes", "+1-650-253-0000", "+16502530000"},
		{"no country prefix kept as-is", "21 99999-9999", "21 99999-9999"},
		{"invalid international kept as-is", "+99912345", "+99912345"},
		{"surrounding whitespace trimmed", "  +5521999999999  ", "+5521999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}
