package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a FindOne or FindOneAndDelete matches no document.
var ErrNotFound = errors.New("document not found")

// DataStore provides uniform document operations over named collections.
// Two implementations exist: MongoStore backed by MongoDB, and MemoryStore,
// a process-local fallback used outside production and in tests.
type DataStore interface {
	// FindMany returns all documents in collection matching filter.
	FindMany(ctx context.Context, collection string, filter bson.M) ([]bson.M, error)
	// FindOne decodes the first document matching filter into result.
	// Returns ErrNotFound when nothing matches.
	FindOne(ctx context.Context, collection string, filter bson.M, result interface{}) error
	// FindOneAndDelete atomically removes the first document matching filter
	// and decodes it into result. Returns ErrNotFound when nothing matches.
	FindOneAndDelete(ctx context.Context, collection string, filter bson.M, result interface{}) error
	// InsertOne stores document, stamping created_at when absent, and returns
	// the assigned id in hex form.
	InsertOne(ctx context.Context, collection string, document interface{}) (string, error)
	// UpdateOne applies a $set patch to the first document matching filter,
	// stamping updated_at when the patch does not carry one. Returns the
	// matched count.
	UpdateOne(ctx context.Context, collection string, filter bson.M, set bson.M) (int64, error)
	// UpsertOne applies a $set patch to the first document matching filter,
	// inserting a new document when nothing matches.
	UpsertOne(ctx context.Context, collection string, filter bson.M, set bson.M) error
	// DeleteOne removes the first document matching filter and returns the
	// deleted count.
	DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error)
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// toDocument converts an arbitrary document into a bson.M so timestamps and
// ids can be stamped regardless of the caller's type.
func toDocument(document interface{}) (bson.M, error) {
	raw, err := bson.Marshal(document)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// isZeroTime reports whether v is a zero timestamp in either of the forms
// a document round-trip can produce.
func isZeroTime(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case time.Time:
		return t.IsZero()
	case primitive.DateTime:
		return t.Time().IsZero()
	}
	return false
}
