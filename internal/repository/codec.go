package repository

import (
	"errors"

	"github.com/spec-kit/cms-service/internal/store"
	"github.com/spec-kit/cms-service/pkg/util"
)

// Document field readers. Store documents are loosely typed maps; these
// tolerate absent fields and legacy shapes by returning zero values.

func docString(doc store.Document, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func docBool(doc store.Document, key string) bool {
	if v, ok := doc[key].(bool); ok {
		return v
	}
	return false
}

func docInt64(doc store.Document, key string) int64 {
	switch v := doc[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func docStringSlice(doc store.Document, key string) []string {
	arr, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func docSlice(doc store.Document, key string) []store.Document {
	arr, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	out := make([]store.Document, 0, len(arr))
	for _, item := range arr {
		switch v := item.(type) {
		case store.Document:
			out = append(out, v)
		case map[string]any:
			out = append(out, store.Document(v))
		}
	}
	return out
}

// mapStoreError converts raw store failures into the error taxonomy.
func mapStoreError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNoDocument) {
		return util.NewNotFound(resource, nil)
	}
	return util.NewStoreError(err)
}
