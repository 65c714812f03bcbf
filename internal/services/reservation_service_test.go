package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delbi-restaurant/reservations-api/internal/models"
	"github.com/delbi-restaurant/reservations-api/internal/store"
)

const testReservationCollection = "Reservation"

func newTestReservationService() (*ReservationService, *store.MemoryStore, *fakeMailer) {
	db := store.NewMemoryStore()
	mailer := &fakeMailer{}
	return NewReservationService(db, mailer, testReservationCollection), db, mailer
}

func testInput() models.ReservationInput {
	return models.ReservationInput{
		Name:   "Alice Smith",
		Email:  "alice@example.com",
		Phone:  "+5521999999999",
		Date:   time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		Time:   "19:30",
		Guests: 4,
	}
}

func TestReservationService_Create(t *testing.T) {
	svc, _, mailer := newTestReservationService()

	reservation, err := svc.Create(context.Background(), testInput())
	require.NoError(t, err)

	assert.False(t, reservation.ID.IsZero(), "Create should set the assigned id")
	assert.Equal(t, models.StatusPending, reservation.Status, "new reservations always start pending")
	assert.False(t, reservation.CreatedAt.IsZero())
	assert.Equal(t, 0, mailer.statusCount(), "creating a reservation sends no status email")
}

func TestReservationService_CreateNormalizesPhone(t *testing.T) {
	svc, _, _ := newTestReservationService()
	input := testInput()
	input.Phone = "+55 21 99999-9999"

	reservation, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "+5521999999999", reservation.Phone)
}

func TestReservationService_Get(t *testing.T) {
	svc, _, _ := newTestReservationService()
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestReservationService_Get_InvalidID(t *testing.T) {
	svc, _, _ := newTestReservationService()

	_, err := svc.Get(context.Background(), "not-a-hex-id")

	assert.ErrorIs(t, err, models.ErrInvalidID)
}

func TestReservationService_Get_NotFound(t *testing.T) {
	svc, _, _ := newTestReservationService()

	_, err := svc.Get(context.Background(), "507f1f77bcf86cd799439011")

	assert.ErrorIs(t, err, models.ErrReservationNotFound)
}

func TestReservationService_List(t *testing.T) {
	svc, _, _ := newTestReservationService()
	ctx := context.Background()

	first := testInput()
	second := testInput()
	second.Email = "bob@example.com"
	second.Date = time.Now().AddDate(0, 0, 8).Format("2006-01-02")

	_, err := svc.Create(ctx, first)
	require.NoError(t, err)
	_, err = svc.Create(ctx, second)
	require.NoError(t, err)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byDate, err := svc.List(ctx, ListFilter{Date: first.Date})
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	pending, err := svc.List(ctx, ListFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	confirmed, err := svc.List(ctx, ListFilter{Status: models.StatusConfirmed})
	require.NoError(t, err)
	assert.Empty(t, confirmed)
}

func TestReservationService_SetStatus(t *testing.T) {
	svc, _, mailer := newTestReservationService()
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	require.NoError(t, err)

	updated, emailSent, err := svc.SetStatus(ctx, created.ID.Hex(), models.StatusConfirmed, "manager")
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Equal(t, "manager", updated.LastUpdatedBy)
	assert.False(t, updated.UpdatedAt.IsZero())
	assert.True(t, emailSent)
	assert.Equal(t, []string{models.StatusConfirmed}, mailer.statusEmails)
}

func TestReservationService_SetStatus_NoOpSendsNoEmail(t *testing.T) {
	svc, _, mailer := newTestReservationService()
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	require.NoError(t, err)

	// pending -> pending changes nothing, so no email goes out.
	updated, emailSent, err := svc.SetStatus(ctx, created.ID.Hex(), models.StatusPending, "manager")
	require.NoError(t, err)

	assert.False(t, emailSent)
	assert.Equal(t, 0, mailer.statusCount())
	// Audit fields are still stamped on a no-op transition.
	assert.Equal(t, "manager", updated.LastUpdatedBy)
	assert.False(t, updated.UpdatedAt.IsZero())
}

func TestReservationService_SetStatus_EmailFailureDoesNotFailUpdate(t *testing.T) {
	svc, _, mailer := newTestReservationService()
	mailer.failStatus = true
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	require.NoError(t, err)

	updated, emailSent, err := svc.SetStatus(ctx, created.ID.Hex(), models.StatusCancelled, "manager")
	require.NoError(t, err, "a notification failure must not roll back the status update")

	assert.False(t, emailSent)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	// The new status is durably recorded.
	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestReservationService_SetStatus_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestReservationService()

	_, _, err := svc.SetStatus(context.Background(), "507f1f77bcf86cd799439011", "archived", "manager")

	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestReservationService_SetStatus_NotFound(t *testing.T) {
	svc, _, _ := newTestReservationService()

	_, _, err := svc.SetStatus(context.Background(), "507f1f77bcf86cd799439011", models.StatusConfirmed, "manager")

	assert.ErrorIs(t, err, models.ErrReservationNotFound)
}

func TestReservationService_SetStatus_EveryTransitionNotifies(t *testing.T) {
	svc, _, mailer := newTestReservationService()
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	require.NoError(t, err)
	id := created.ID.Hex()

	for _, status := range []string{models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted, models.StatusPending} {
		_, emailSent, err := svc.SetStatus(ctx, id, status, "manager")
		require.NoError(t, err)
		assert.True(t, emailSent, "transition to %q should notify", status)
	}

	assert.Equal(t, 4, mailer.statusCount())
}

func TestReservationService_Delete(t *testing.T) {
	svc, _, _ := newTestReservationService()
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))

	_, err = svc.Get(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, models.ErrReservationNotFound)

	err = svc.Delete(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, models.ErrReservationNotFound)
}

func TestReservationService_Delete_InvalidID(t *testing.T) {
	svc, _, _ := newTestReservationService()

	err := svc.Delete(context.Background(), "nope")

	assert.ErrorIs(t, err, models.ErrInvalidID)
}
