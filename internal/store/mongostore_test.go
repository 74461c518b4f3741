package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLookupFilterObjectIDHex(t *testing.T) {
	oid := primitive.NewObjectID()

	filter := lookupFilter(oid.Hex())
	assert.Equal(t, bson.M{"_id": oid}, filter)
}

func TestLookupFilterCallerChosenIDs(t *testing.T) {
	// Provider-assigned userIds are uuids, not ObjectID hex; the filter
	// must carry them through as plain strings so Get finds documents
	// written by Set under the same id.
	for _, id := range []string{uuid.NewString(), "u1", ""} {
		assert.Equal(t, bson.M{"_id": id}, lookupFilter(id))
	}
}
