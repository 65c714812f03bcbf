package antispam

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_FirstSubmission(t *testing.T) {
	now := time.Now()

	decision := Evaluate(Submission{}, now)

	assert.Equal(t, Proceed, decision)
}

func TestEvaluate_Honeypot(t *testing.T) {
	now := time.Now()

	decision := Evaluate(Submission{Honeypot: "http://spam.example"}, now)

	assert.Equal(t, BlockedHoneypot, decision)
}

func TestEvaluate_HoneypotWinsOverOtherChecks(t *testing.T) {
	// A populated honeypot blocks even when the cooldown and cap would
	// also trip; the honeypot is checked first.
	now := time.Now()

	decision := Evaluate(Submission{
		Honeypot:       "filled",
		Attempts:       MaxAttempts,
		LastSubmission: now.Add(-time.Second),
	}, now)

	assert.Equal(t, BlockedHoneypot, decision)
}

func TestEvaluate_Cooldown(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name           string
		lastSubmission time.Time
		want           Decision
	}{
		{
			name:           "inside cooldown",
			lastSubmission: now.Add(-30 * time.Second),
			want:           BlockedCooldown,
		},
		{
			name:           "just inside cooldown",
			lastSubmission: now.Add(-Cooldown + time.Millisecond),
			want:           BlockedCooldown,
		},
		{
			name:           "exactly at cooldown",
			lastSubmission: now.Add(-Cooldown),
			want:           Proceed,
		},
		{
			name:           "past cooldown",
			lastSubmission: now.Add(-2 * Cooldown),
			want:           Proceed,
		},
		{
			name:           "no previous submission",
			lastSubmission: time.Time{},
			want:           Proceed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(Submission{
				Attempts:       1,
				LastSubmission: tt.lastSubmission,
			}, now)
			assert.Equal(t, tt.want, decision)
		})
	}
}

func TestEvaluate_AttemptCap(t *testing.T) {
	now := time.Now()
	past := now.Add(-2 * Cooldown)

	tests := []struct {
		attempts int
		want     Decision
	}{
		{attempts: 0, want: Proceed},
		{attempts: MaxAttempts - 1, want: Proceed},
		{attempts: MaxAttempts, want: BlockedTooMany},
		{attempts: MaxAttempts + 5, want: BlockedTooMany},
	}

	for _, tt := range tests {
		decision := Evaluate(Submission{
			Attempts:       tt.attempts,
			LastSubmission: past,
		}, now)
		assert.Equal(t, tt.want, decision, "attempts=%d", tt.attempts)
	}
}

func TestEvaluate_Pure(t *testing.T) {
	// Evaluate never mutates the submission; recording attempts is the
	// caller's job.
	now := time.Now()
	s := Submission{Attempts: 1, LastSubmission: now.Add(-2 * Cooldown)}

	_ = Evaluate(s, now)

	assert.Equal(t, 1, s.Attempts)
	assert.Equal(t, now.Add(-2*Cooldown), s.LastSubmission)
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "proceed", Proceed.String())
	assert.Equal(t, "honeypot", BlockedHoneypot.String())
	assert.Equal(t, "cooldown", BlockedCooldown.String())
	assert.Equal(t, "too_many_attempts", BlockedTooMany.String())
	assert.Equal(t, "unknown", Decision(99).String())
}
