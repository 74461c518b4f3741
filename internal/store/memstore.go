package store

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store with the same contract semantics as the
// Mongo implementation. Tests and local runs use it; it keeps documents
// in insertion order per collection, which is the only order a caller
// may (not) rely on.
type MemStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	order       map[string][]string
}

// NewMemStore builds an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string]map[string]Document),
		order:       make(map[string][]string),
	}
}

func (s *MemStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNoDocument
	}
	return cloneDocument(doc), nil
}

func (s *MemStore) Add(_ context.Context, collection string, fields Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.put(collection, id, cloneDocument(fields))
	return id, nil
}

func (s *MemStore) Set(_ context.Context, collection, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, cloneDocument(fields))
	return nil
}

func (s *MemStore) Update(_ context.Context, collection, id string, patch Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNoDocument
	}
	for field, value := range patch {
		if union, ok := value.(unionValue); ok {
			doc[field] = unionInto(doc[field], union.values)
			continue
		}
		doc[field] = cloneValue(value)
	}
	return nil
}

func (s *MemStore) Query(_ context.Context, collection string, predicates ...Predicate) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var snapshots []Snapshot
	for _, id := range s.order[collection] {
		doc := s.collections[collection][id]
		if doc == nil || !matches(doc, predicates) {
			continue
		}
		snapshots = append(snapshots, Snapshot{ID: id, Data: cloneDocument(doc)})
	}
	return snapshots, nil
}

func (s *MemStore) put(collection, id string, doc Document) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}
	if _, exists := s.collections[collection][id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	s.collections[collection][id] = doc
}

func matches(doc Document, predicates []Predicate) bool {
	for _, p := range predicates {
		switch p.op {
		case opEqual:
			if !reflect.DeepEqual(doc[p.field], p.value) {
				return false
			}
		case opArrayContains:
			arr, ok := doc[p.field].([]any)
			if !ok {
				return false
			}
			found := false
			for _, item := range arr {
				if reflect.DeepEqual(item, p.value) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// unionInto appends values not already present, preserving order.
func unionInto(current any, values []any) []any {
	arr, _ := current.([]any)
	for _, v := range values {
		present := false
		for _, existing := range arr {
			if reflect.DeepEqual(existing, v) {
				present = true
				break
			}
		}
		if !present {
			arr = append(arr, cloneValue(v))
		}
	}
	return arr
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Document:
		return cloneDocument(val)
	case map[string]any:
		return map[string]any(cloneDocument(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
