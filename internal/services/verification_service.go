package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/models"
	"github.com/delbi-restaurant/reservations-api/internal/observability"
	"github.com/delbi-restaurant/reservations-api/internal/store"
	"github.com/delbi-restaurant/reservations-api/internal/utils"
)

// localCode is the in-process copy of an issued verification code.
type localCode struct {
	code      string
	expiresAt time.Time
}

// VerificationService issues and validates single-use email verification
// codes. Codes live in the durable store, mirrored in a process-local map
// that shortcuts expiry and mismatch checks; consumption always goes through
// the store so a code can only ever be spent once.
type VerificationService struct {
	db         store.DataStore
	mailer     Mailer
	collection string
	ttl        time.Duration

	mu    sync.Mutex
	local map[string]localCode
}

// NewVerificationService creates a verification code service over db.
func NewVerificationService(db store.DataStore, mailer Mailer, collection string, ttl time.Duration) *VerificationService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &VerificationService{
		db:         db,
		mailer:     mailer,
		collection: collection,
		ttl:        ttl,
		local:      make(map[string]localCode),
	}
}

// IssueCode mints a fresh 6-digit code for email, superseding any previous
// code for the same address, and emails it to the customer. A send failure
// surfaces as models.ErrDeliveryFailed, distinct from storage errors.
func (s *VerificationService) IssueCode(ctx context.Context, email, name string) (string, error) {
	code := utils.GenerateVerificationCode()
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)

	err := s.db.UpsertOne(ctx, s.collection,
		bson.M{"email": email},
		bson.M{
			"code":       code,
			"created_at": now,
			"expires_at": expiresAt,
		},
	)
	if err != nil {
		observability.VerificationCodesIssued.WithLabelValues("storage_error").Inc()
		return "", fmt.Errorf("store verification code: %w", err)
	}

	s.mu.Lock()
	s.local[email] = localCode{code: code, expiresAt: expiresAt}
	s.mu.Unlock()

	if err := s.mailer.SendVerificationCode(ctx, email, name, code); err != nil {
		observability.Logger().Error("verification code delivery failed",
			zap.String("email", observability.MaskEmail(email)),
			zap.Error(err))
		observability.VerificationCodesIssued.WithLabelValues("delivery_failed").Inc()
		return "", fmt.Errorf("%w: %v", models.ErrDeliveryFailed, err)
	}

	observability.VerificationCodesIssued.WithLabelValues("sent").Inc()
	return code, nil
}

// VerifyCode checks a submitted code for email. On success the code is
// consumed: a second verification with the same code fails with
// ErrCodeNotFound. Failures are distinguished as ErrCodeNotFound,
// ErrCodeExpired, or ErrCodeMismatch.
func (s *VerificationService) VerifyCode(ctx context.Context, email, submitted string) error {
	err := s.verify(ctx, email, submitted)
	switch {
	case err == nil:
		observability.VerificationAttempts.WithLabelValues("success").Inc()
	case errors.Is(err, models.ErrCodeExpired):
		observability.VerificationAttempts.WithLabelValues("expired").Inc()
	case errors.Is(err, models.ErrCodeMismatch):
		observability.VerificationAttempts.WithLabelValues("mismatch").Inc()
	case errors.Is(err, models.ErrCodeNotFound):
		observability.VerificationAttempts.WithLabelValues("not_found").Inc()
	default:
		observability.VerificationAttempts.WithLabelValues("error").Inc()
	}
	return err
}

func (s *VerificationService) verify(ctx context.Context, email, submitted string) error {
	now := time.Now().UTC()

	// The in-process copy is only a cache: it pins down expiry and mismatch
	// without a durable read, but never counts as consumption on its own.
	s.mu.Lock()
	entry, cached := s.local[email]
	if cached {
		if !entry.expiresAt.After(now) {
			delete(s.local, email)
			s.mu.Unlock()
			s.cleanupDurable(ctx, email)
			return models.ErrCodeExpired
		}
		if entry.code != submitted {
			s.mu.Unlock()
			return models.ErrCodeMismatch
		}
		delete(s.local, email)
	}
	s.mu.Unlock()

	if !cached {
		// A plain read pins down the failure reason before consumption.
		var stored models.VerificationCode
		if err := s.db.FindOne(ctx, s.collection, bson.M{"email": email}, &stored); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.ErrCodeNotFound
			}
			return fmt.Errorf("look up verification code: %w", err)
		}
		if stored.Expired(now) {
			s.cleanupDurable(ctx, email)
			return models.ErrCodeExpired
		}
		if stored.Code != submitted {
			return models.ErrCodeMismatch
		}
	}

	// The atomic find-and-delete is the single consumption point. Exactly one
	// of any concurrent verifications removes the row; the rest see not-found.
	var consumed models.VerificationCode
	err := s.db.FindOneAndDelete(ctx, s.collection, bson.M{
		"email":      email,
		"code":       submitted,
		"expires_at": bson.M{"$gt": now},
	}, &consumed)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ErrCodeNotFound
		}
		return fmt.Errorf("consume verification code: %w", err)
	}
	return nil
}

// cleanupDurable removes any durable row for email; failures only get logged.
func (s *VerificationService) cleanupDurable(ctx context.Context, email string) {
	if _, err := s.db.DeleteOne(ctx, s.collection, bson.M{"email": email}); err != nil {
		observability.Logger().Warn("failed to clean up verification code",
			zap.String("email", observability.MaskEmail(email)),
			zap.Error(err))
	}
}
