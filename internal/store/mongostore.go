package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a Mongo database. Document ids are
// ObjectID hex strings; partial merges map to $set and ArrayUnion to
// $addToSet, which gives the required per-document atomicity.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps the database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	if err := s.db.Collection(collection).FindOne(ctx, lookupFilter(id)).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	doc := normalizeDocument(raw)
	delete(doc, "_id")
	return doc, nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, fields Document) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, bson.M(fields))
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("store: unexpected inserted id type")
	}
	return oid.Hex(), nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, fields Document) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(collection).ReplaceOne(ctx, lookupFilter(id), bson.M(fields), opts)
	return err
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, patch Document) error {
	set := bson.M{}
	addToSet := bson.M{}
	for field, value := range patch {
		if union, ok := value.(unionValue); ok {
			addToSet[field] = bson.M{"$each": union.values}
			continue
		}
		set[field] = value
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(addToSet) > 0 {
		update["$addToSet"] = addToSet
	}
	if len(update) == 0 {
		return nil
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, lookupFilter(id), update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, predicates ...Predicate) ([]Snapshot, error) {
	filter := bson.M{}
	for _, p := range predicates {
		// Equality on an array field already means "contains" in Mongo,
		// so both predicate kinds translate to the same filter shape.
		filter[p.field] = p.value
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snapshots []Snapshot
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		doc := normalizeDocument(raw)
		id := ""
		switch v := doc["_id"].(type) {
		case string:
			id = v
		}
		delete(doc, "_id")
		snapshots = append(snapshots, Snapshot{ID: id, Data: doc})
	}
	return snapshots, cursor.Err()
}

// lookupFilter builds the _id filter for any read or write. Ids the
// store assigned are ObjectID hex; caller-chosen ids (provider userIds)
// are stored as plain strings, so both shapes must resolve.
func lookupFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

// normalizeDocument converts driver types (bson.M, primitive.A,
// ObjectID) into the plain Document shapes callers decode against.
func normalizeDocument(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		doc[k] = normalizeValue(v)
	}
	return doc
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return normalizeDocument(val)
	case bson.D:
		return normalizeDocument(val.Map())
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case primitive.ObjectID:
		return val.Hex()
	case int32:
		return int64(val)
	default:
		return v
	}
}
