package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone formats a phone number in E.164 when it can be parsed,
// otherwise returns the input unchanged. Validation happens separately;
// this only canonicalizes what is stored.
func NormalizePhone(phone string) string {
	clean := strings.TrimSpace(phone)
	if !strings.HasPrefix(clean, "+") {
		// without a country prefix there is no safe region to assume
		return clean
	}
	parsed, err := phonenumbers.Parse(clean, "ZZ")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return clean
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
