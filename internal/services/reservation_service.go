package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/models"
	"github.com/delbi-restaurant/reservations-api/internal/observability"
	"github.com/delbi-restaurant/reservations-api/internal/store"
	"github.com/delbi-restaurant/reservations-api/internal/utils"
)

// ReservationService persists reservations and drives admin status
// transitions, notifying customers by email when a status actually changes.
type ReservationService struct {
	db         store.DataStore
	mailer     Mailer
	collection string
}

// NewReservationService creates a reservation service over db.
func NewReservationService(db store.DataStore, mailer Mailer, collection string) *ReservationService {
	return &ReservationService{db: db, mailer: mailer, collection: collection}
}

// ListFilter narrows admin reservation listings.
type ListFilter struct {
	Date   string
	Status string
}

// parseID coerces a string id into an ObjectID; malformed input is a client
// error, never a silently-empty query.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", models.ErrInvalidID, id)
	}
	return oid, nil
}

// Create stores a new reservation in pending status and returns it.
func (s *ReservationService) Create(ctx context.Context, input models.ReservationInput) (*models.Reservation, error) {
	now := time.Now().UTC()
	reservation := &models.Reservation{
		Name:            input.Name,
		Email:           input.Email,
		Phone:           utils.NormalizePhone(input.Phone),
		Date:            input.Date,
		Time:            input.Time,
		Guests:          input.Guests,
		SpecialRequests: input.SpecialRequests,
		Status:          models.StatusPending,
		CreatedAt:       now,
	}

	id, err := s.db.InsertOne(ctx, s.collection, reservation)
	if err != nil {
		observability.ReservationsCreated.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		reservation.ID = oid
	}

	observability.ReservationsCreated.WithLabelValues("created").Inc()
	observability.Logger().Info("reservation created",
		zap.String("id", id),
		zap.String("email", observability.MaskEmail(reservation.Email)),
		zap.String("date", reservation.Date))
	return reservation, nil
}

// Get returns a reservation by id.
func (s *ReservationService) Get(ctx context.Context, id string) (*models.Reservation, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var reservation models.Reservation
	if err := s.db.FindOne(ctx, s.collection, bson.M{"_id": oid}, &reservation); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return &reservation, nil
}

// List returns reservations matching filter.
func (s *ReservationService) List(ctx context.Context, filter ListFilter) ([]bson.M, error) {
	query := bson.M{}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	docs, err := s.db.FindMany(ctx, s.collection, query)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return docs, nil
}

// SetStatus transitions a reservation to newStatus on behalf of actor. The
// update always stamps the audit fields; a notification email goes out only
// when the status actually changed. Email failure never rolls back the
// update, it is reported through the emailSent flag.
func (s *ReservationService) SetStatus(ctx context.Context, id, newStatus, actor string) (*models.Reservation, bool, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, false, fmt.Errorf("%w: %q", models.ErrInvalidStatus, newStatus)
	}

	oid, err := parseID(id)
	if err != nil {
		return nil, false, err
	}

	var existing models.Reservation
	if err := s.db.FindOne(ctx, s.collection, bson.M{"_id": oid}, &existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, models.ErrReservationNotFound
		}
		return nil, false, fmt.Errorf("find reservation: %w", err)
	}

	now := time.Now().UTC()
	matched, err := s.db.UpdateOne(ctx, s.collection,
		bson.M{"_id": oid},
		bson.M{
			"status":          newStatus,
			"updated_at":      now,
			"last_updated_by": actor,
		},
	)
	if err != nil {
		return nil, false, fmt.Errorf("update reservation: %w", err)
	}
	if matched == 0 {
		return nil, false, models.ErrReservationNotFound
	}

	updated := existing
	updated.ID = oid
	updated.Status = newStatus
	updated.UpdatedAt = now
	updated.LastUpdatedBy = actor

	if existing.Status == newStatus {
		// No-op transition: audit fields are stamped above, but the
		// customer gets no duplicate email.
		return &updated, false, nil
	}

	observability.StatusTransitions.WithLabelValues(newStatus).Inc()

	if err := s.mailer.SendStatusEmail(ctx, &updated); err != nil {
		observability.NotificationEmails.WithLabelValues("failed").Inc()
		observability.Logger().Warn("status notification email failed",
			zap.String("id", id),
			zap.String("status", newStatus),
			zap.Error(err))
		return &updated, false, nil
	}

	observability.NotificationEmails.WithLabelValues("sent").Inc()
	return &updated, true, nil
}

// Delete removes a reservation. Admin-only side capability; the customer
// workflow never deletes records.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	deleted, err := s.db.DeleteOne(ctx, s.collection, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if deleted == 0 {
		return models.ErrReservationNotFound
	}
	return nil
}
