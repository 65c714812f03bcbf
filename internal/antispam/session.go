package antispam

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/observability"
	"github.com/delbi-restaurant/reservations-api/internal/redisclient"
)

// sessionTTL bounds how long attempt state lives; sessions are ephemeral.
const sessionTTL = 30 * time.Minute

// SessionGuard keeps per-client submission state in Redis and applies the
// pure guard to it. When Redis is unavailable the guard fails open, the
// workflow still re-validates every field.
type SessionGuard struct {
	redis *redisclient.Client
}

// NewSessionGuard creates a guard backed by redis. A nil client disables
// server-side tracking (every check proceeds).
func NewSessionGuard(redis *redisclient.Client) *SessionGuard {
	return &SessionGuard{redis: redis}
}

func sessionKey(clientID string) string {
	return "antispam:session:" + clientID
}

// Check evaluates a submission for clientID and, when it may proceed,
// records the attempt.
func (g *SessionGuard) Check(ctx context.Context, clientID, honeypot string) Decision {
	now := time.Now().UTC()
	submission := Submission{Honeypot: honeypot}

	if g.redis == nil {
		decision := Evaluate(submission, now)
		g.count(decision)
		return decision
	}

	key := sessionKey(clientID)
	state, err := g.redis.HGetAll(ctx, key).Result()
	if err != nil {
		observability.Logger().Warn("anti-spam state unavailable", zap.Error(err))
	} else {
		if v, ok := state["attempts"]; ok {
			submission.Attempts, _ = strconv.Atoi(v)
		}
		if v, ok := state["last_unix"]; ok {
			if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
				submission.LastSubmission = time.Unix(unix, 0)
			}
		}
	}

	decision := Evaluate(submission, now)
	g.count(decision)
	if decision != Proceed {
		return decision
	}

	if err := g.redis.HSet(ctx, key,
		"attempts", submission.Attempts+1,
		"last_unix", now.Unix(),
	).Err(); err != nil {
		observability.Logger().Warn("failed to record submission attempt", zap.Error(err))
		return decision
	}
	if err := g.redis.Expire(ctx, key, sessionTTL).Err(); err != nil {
		observability.Logger().Warn("failed to expire anti-spam state", zap.Error(err))
	}
	return decision
}

func (g *SessionGuard) count(decision Decision) {
	if decision != Proceed {
		observability.AntiSpamBlocks.WithLabelValues(decision.String()).Inc()
	}
}
