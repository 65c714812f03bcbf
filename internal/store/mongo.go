package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/delbi-restaurant/reservations-api/internal/logging"
)

// DefaultQueryTimeout is the default timeout for MongoDB queries
const DefaultQueryTimeout = 10 * time.Second

const (
	maxRetryAttempts = 3
	baseRetryDelay   = 100 * time.Millisecond
)

// MongoStore implements DataStore on top of a MongoDB database.
// Transient failures are retried with doubling backoff before the
// error is surfaced to the caller.
type MongoStore struct {
	db      *mongo.Database
	timeout time.Duration
	logger  *zap.Logger
}

// NewMongoStore creates a MongoStore over db using the default query timeout.
func NewMongoStore(db *mongo.Database) *MongoStore {
	logger := logging.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoStore{db: db, timeout: DefaultQueryTimeout, logger: logger}
}

// isTransient reports whether err is worth retrying: timeouts, dropped
// connections, and server selection failures while a replica set elects.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, mongo.ErrNoDocuments) || mongo.IsDuplicateKeyError(err) {
		return false
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	return strings.Contains(err.Error(), "server selection error")
}

// withRetry runs op up to maxRetryAttempts times, doubling the delay
// between attempts while the failure looks transient.
func (s *MongoStore) withRetry(ctx context.Context, operation string, op func(ctx context.Context) error) error {
	delay := baseRetryDelay
	var err error
	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err = op(opCtx)
		cancel()
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt < maxRetryAttempts {
			s.logger.Warn("transient database error, retrying",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}
	return err
}

func (s *MongoStore) FindMany(ctx context.Context, collection string, filter bson.M) ([]bson.M, error) {
	var docs []bson.M
	err := s.withRetry(ctx, "find", func(ctx context.Context) error {
		cursor, err := s.db.Collection(collection).Find(ctx, filter)
		if err != nil {
			return err
		}
		docs = nil
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []bson.M{}
	}
	return docs, nil
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter bson.M, result interface{}) error {
	err := s.withRetry(ctx, "find_one", func(ctx context.Context) error {
		return s.db.Collection(collection).FindOne(ctx, filter).Decode(result)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (s *MongoStore) FindOneAndDelete(ctx context.Context, collection string, filter bson.M, result interface{}) error {
	err := s.withRetry(ctx, "find_one_and_delete", func(ctx context.Context) error {
		return s.db.Collection(collection).FindOneAndDelete(ctx, filter).Decode(result)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, document interface{}) (string, error) {
	doc, err := toDocument(document)
	if err != nil {
		return "", err
	}
	if v, ok := doc["created_at"]; !ok || isZeroTime(v) {
		doc["created_at"] = time.Now().UTC()
	}
	var id string
	err = s.withRetry(ctx, "insert_one", func(ctx context.Context) error {
		res, err := s.db.Collection(collection).InsertOne(ctx, doc)
		if err != nil {
			return err
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			id = oid.Hex()
		}
		return nil
	})
	return id, err
}

func (s *MongoStore) UpdateOne(ctx context.Context, collection string, filter bson.M, set bson.M) (int64, error) {
	if _, ok := set["updated_at"]; !ok {
		set["updated_at"] = time.Now().UTC()
	}
	var matched int64
	err := s.withRetry(ctx, "update_one", func(ctx context.Context) error {
		res, err := s.db.Collection(collection).UpdateOne(ctx, filter, bson.M{"$set": set})
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})
	return matched, err
}

func (s *MongoStore) UpsertOne(ctx context.Context, collection string, filter bson.M, set bson.M) error {
	return s.withRetry(ctx, "upsert_one", func(ctx context.Context) error {
		opts := options.Update().SetUpsert(true)
		_, err := s.db.Collection(collection).UpdateOne(ctx, filter, bson.M{"$set": set}, opts)
		return err
	})
}

func (s *MongoStore) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	var deleted int64
	err := s.withRetry(ctx, "delete_one", func(ctx context.Context) error {
		res, err := s.db.Collection(collection).DeleteOne(ctx, filter)
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	return deleted, err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.Client().Ping(ctx, nil)
}
