package antispam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionGuard_NilRedisFailsOpen(t *testing.T) {
	guard := NewSessionGuard(nil)
	ctx := context.Background()

	// Without session state the guard has nothing to count attempts
	// against, so clean submissions always proceed.
	for i := 0; i < MaxAttempts+2; i++ {
		assert.Equal(t, Proceed, guard.Check(ctx, "203.0.113.7", ""))
	}
}

func TestSessionGuard_NilRedisStillCatchesHoneypot(t *testing.T) {
	guard := NewSessionGuard(nil)

	decision := guard.Check(context.Background(), "203.0.113.7", "gotcha")

	assert.Equal(t, BlockedHoneypot, decision)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "antispam:session:203.0.113.7", sessionKey("203.0.113.7"))
}
