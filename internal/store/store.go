// Package store defines the document-store contract the core consumes:
// per-document reads, server-assigned inserts, partial-merge updates
// with an idempotent array-union operator, and filtered collection
// queries. No ordering primitive is assumed; callers sort in memory.
package store

import (
	"context"
	"errors"
)

// Collection names used by the service.
const (
	CollectionUsers        = "users"
	CollectionInstitutions = "institutions"
	CollectionReports      = "reports"
	CollectionCredentials  = "credentials"
)

// ErrNoDocument is returned by Get and Update when the id matches nothing.
var ErrNoDocument = errors.New("store: no document")

// Document is a stored field map.
type Document map[string]any

// Snapshot pairs a queried document with its store-assigned id.
type Snapshot struct {
	ID   string
	Data Document
}

type predicateOp int

const (
	opEqual predicateOp = iota
	opArrayContains
)

// Predicate narrows a Query. Construct via WhereEqual or WhereArrayContains.
type Predicate struct {
	field string
	op    predicateOp
	value any
}

// WhereEqual matches documents whose field equals value.
func WhereEqual(field string, value any) Predicate {
	return Predicate{field: field, op: opEqual, value: value}
}

// WhereArrayContains matches documents whose array field contains value.
func WhereArrayContains(field string, value any) Predicate {
	return Predicate{field: field, op: opArrayContains, value: value}
}

// unionValue is the field sentinel recognized by Update. The union is
// idempotent at the store so concurrent updates cannot lose elements.
type unionValue struct {
	values []any
}

// ArrayUnion marks a patch field for idempotent array union.
func ArrayUnion(values ...any) any {
	return unionValue{values: values}
}

// Store is the persistence contract. Implementations must keep single
// document updates atomic; nothing is promised across documents.
type Store interface {
	// Get fetches one document; ErrNoDocument when absent.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Add inserts with a server-assigned id and returns it.
	Add(ctx context.Context, collection string, fields Document) (string, error)
	// Set writes the full document under a caller-chosen id.
	Set(ctx context.Context, collection, id string, fields Document) error
	// Update partially merges the patch into an existing document.
	// ArrayUnion sentinel values union into array fields.
	Update(ctx context.Context, collection, id string, patch Document) error
	// Query returns every document matching all predicates, in no
	// promised order.
	Query(ctx context.Context, collection string, predicates ...Predicate) ([]Snapshot, error)
}
