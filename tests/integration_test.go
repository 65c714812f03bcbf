package tests

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delbi-restaurant/reservations-api/internal/models"
	"github.com/delbi-restaurant/reservations-api/internal/services"
)

// nullMailer satisfies services.Mailer without a real SMTP relay.
type nullMailer struct {
	lastCode string
}

func (m *nullMailer) SendVerificationCode(ctx context.Context, email, name, code string) error {
	m.lastCode = code
	return nil
}

func (m *nullMailer) SendStatusEmail(ctx context.Context, reservation *models.Reservation) error {
	return nil
}

func setupIntegration(t *testing.T) *TestContainers {
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("TEST_INTEGRATION not set, skipping container-backed test")
	}
	tc := SetupTestContainers(t)
	t.Cleanup(tc.Cleanup)
	return tc
}

func TestVerificationFlow_AgainstMongo(t *testing.T) {
	tc := setupIntegration(t)
	ctx := context.Background()
	mailer := &nullMailer{}

	svc := services.NewVerificationService(tc.Store, mailer, "VerificationCodes", 10*time.Minute)

	code, err := svc.IssueCode(ctx, "alice@example.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, code, mailer.lastCode)

	require.NoError(t, svc.VerifyCode(ctx, "alice@example.com", code))

	err = svc.VerifyCode(ctx, "alice@example.com", code)
	assert.ErrorIs(t, err, models.ErrCodeNotFound, "a consumed code must not verify again")

	CleanupDatabase(t, tc.MongoDB)
}

func TestReservationLifecycle_AgainstMongo(t *testing.T) {
	tc := setupIntegration(t)
	ctx := context.Background()

	svc := services.NewReservationService(tc.Store, &nullMailer{}, "Reservation")

	created, err := svc.Create(ctx, models.ReservationInput{
		Name:   "Alice Smith",
		Email:  "alice@example.com",
		Phone:  "+5521999999999",
		Date:   time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		Time:   "19:30",
		Guests: 4,
	})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())

	updated, _, err := svc.SetStatus(ctx, created.ID.Hex(), models.StatusConfirmed, "manager")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, "manager", got.LastUpdatedBy)

	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))
	_, err = svc.Get(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, models.ErrReservationNotFound)

	CleanupDatabase(t, tc.MongoDB)
}
