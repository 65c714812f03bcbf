package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore implements DataStore with process-local collections. It is the
// non-production fallback when MongoDB is unreachable, and the deterministic
// substitute used by tests. Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]bson.M)}
}

// asTime normalizes the two timestamp representations seen in documents.
func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}

// matchValue compares a stored value against a filter value, which may be a
// plain equality or a {"$gt": ...} operator on timestamps.
func matchValue(stored, want interface{}) bool {
	if op, ok := want.(bson.M); ok {
		if gt, ok := op["$gt"]; ok {
			sv, ok1 := asTime(stored)
			gv, ok2 := asTime(gt)
			return ok1 && ok2 && sv.After(gv)
		}
		return false
	}
	if st, ok1 := asTime(stored); ok1 {
		if wt, ok2 := asTime(want); ok2 {
			return st.Equal(wt)
		}
		return false
	}
	if soid, ok := stored.(primitive.ObjectID); ok {
		if woid, ok := want.(primitive.ObjectID); ok {
			return soid == woid
		}
		return false
	}
	return stored == want
}

func matchFilter(doc bson.M, filter bson.M) bool {
	for k, want := range filter {
		if !matchValue(doc[k], want) {
			return false
		}
	}
	return true
}

func decodeInto(doc bson.M, result interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, result)
}

func (s *MemoryStore) FindMany(ctx context.Context, collection string, filter bson.M) ([]bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []bson.M{}
	for _, doc := range s.collections[collection] {
		if matchFilter(doc, filter) {
			copied := bson.M{}
			for k, v := range doc {
				copied[k] = v
			}
			out = append(out, copied)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindOne(ctx context.Context, collection string, filter bson.M, result interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.collections[collection] {
		if matchFilter(doc, filter) {
			return decodeInto(doc, result)
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) FindOneAndDelete(ctx context.Context, collection string, filter bson.M, result interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collections[collection]
	for i, doc := range docs {
		if matchFilter(doc, filter) {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return decodeInto(doc, result)
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) InsertOne(ctx context.Context, collection string, document interface{}) (string, error) {
	doc, err := toDocument(document)
	if err != nil {
		return "", err
	}
	if v, ok := doc["created_at"]; !ok || isZeroTime(v) {
		doc["created_at"] = time.Now().UTC()
	}
	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		doc["_id"] = id
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], doc)
	return id.Hex(), nil
}

func (s *MemoryStore) UpdateOne(ctx context.Context, collection string, filter bson.M, set bson.M) (int64, error) {
	if _, ok := set["updated_at"]; !ok {
		set["updated_at"] = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.collections[collection] {
		if matchFilter(doc, filter) {
			for k, v := range set {
				doc[k] = v
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) UpsertOne(ctx context.Context, collection string, filter bson.M, set bson.M) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.collections[collection] {
		if matchFilter(doc, filter) {
			for k, v := range set {
				doc[k] = v
			}
			return nil
		}
	}
	doc := bson.M{"_id": primitive.NewObjectID(), "created_at": time.Now().UTC()}
	for k, v := range filter {
		doc[k] = v
	}
	for k, v := range set {
		doc[k] = v
	}
	s.collections[collection] = append(s.collections[collection], doc)
	return nil
}

func (s *MemoryStore) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collections[collection]
	for i, doc := range docs {
		if matchFilter(doc, filter) {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
