package observability

import (
	"strings"

	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/logging"
)

// Logger returns the global logger instance
func Logger() *zap.Logger {
	if logging.Logger == nil {
		return zap.NewNop()
	}
	return logging.Logger
}

// MaskEmail masks the local part of an email address for logging
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
