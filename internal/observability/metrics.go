package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "reservations_api_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reservations_api_active_connections",
			Help: "Number of active connections",
		},
	)

	// VerificationCodesIssued tracks verification code issuance
	VerificationCodesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_api_verification_codes_issued_total",
			Help: "Number of verification codes issued",
		},
		[]string{"status"},
	)

	// VerificationAttempts tracks verification attempts by outcome
	VerificationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_api_verification_attempts_total",
			Help: "Number of verification code checks",
		},
		[]string{"result"},
	)

	// ReservationsCreated tracks created reservations
	ReservationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_api_reservations_created_total",
			Help: "Number of reservations created",
		},
		[]string{"status"},
	)

	// StatusTransitions tracks admin status changes
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_api_status_transitions_total",
			Help: "Number of reservation status transitions",
		},
		[]string{"status"},
	)

	// NotificationEmails tracks status notification email attempts
	NotificationEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_api_notification_emails_total",
			Help: "Number of status notification email attempts",
		},
		[]string{"status"},
	)

	// AntiSpamBlocks tracks submissions rejected before reaching the workflow
	AntiSpamBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_api_antispam_blocks_total",
			Help: "Number of submissions blocked by the anti-spam guard",
		},
		[]string{"reason"},
	)
)
