// Package antispam provides pre-submission friction against automated
// reservation requests: a honeypot field, a cooldown window, and a
// per-session attempt cap. It is advisory only; field validation happens
// independently server-side.
package antispam

import "time"

// Decision is the outcome of evaluating a submission attempt.
type Decision int

const (
	// Proceed allows the submission.
	Proceed Decision = iota
	// BlockedHoneypot rejects a submission whose hidden field was populated.
	BlockedHoneypot
	// BlockedCooldown rejects a submission inside the cooldown window.
	BlockedCooldown
	// BlockedTooMany rejects a submission past the attempt cap.
	BlockedTooMany
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case BlockedHoneypot:
		return "honeypot"
	case BlockedCooldown:
		return "cooldown"
	case BlockedTooMany:
		return "too_many_attempts"
	}
	return "unknown"
}

const (
	// Cooldown is the minimum gap between submissions.
	Cooldown = 60 * time.Second
	// MaxAttempts is the number of submissions allowed per session.
	MaxAttempts = 3
)

// Submission captures the state of a submission attempt.
type Submission struct {
	// Honeypot is the value of the hidden form field; legitimate users
	// never populate it.
	Honeypot string
	// Attempts counts prior submissions this session.
	Attempts int
	// LastSubmission is when the previous submission happened; zero when
	// this is the first.
	LastSubmission time.Time
}

// Evaluate decides whether a submission may proceed. Pure: no side effects,
// the caller records the attempt on Proceed.
func Evaluate(s Submission, now time.Time) Decision {
	if s.Honeypot != "" {
		return BlockedHoneypot
	}
	if !s.LastSubmission.IsZero() && now.Sub(s.LastSubmission) < Cooldown {
		return BlockedCooldown
	}
	if s.Attempts >= MaxAttempts {
		return BlockedTooMany
	}
	return Proceed
}
