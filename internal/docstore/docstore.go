package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fields holds the payload of a document. Values are restricted to the
// JSON types: string, bool, float64, nil, []any and nested maps.
type Fields map[string]any

// Doc is a stored document with its identifier.
type Doc struct {
	ID     string
	Fields Fields
}

// Op is a query comparison operator.
type Op string

const (
	OpEqual         Op = "=="
	OpArrayContains Op = "array-contains"
)

// ErrNotFound is returned by Get for a missing document.
var ErrNotFound = errors.New("docstore: document not found")

// serverTimestamp is a sentinel replaced with the write time by the store.
type serverTimestamp struct{}

// ServerTimestamp marks a field to be assigned the store's clock at write
// time, RFC3339-formatted with nanoseconds so insertion order survives
// lexicographic sorting.
func ServerTimestamp() any { return serverTimestamp{} }

// Store is the point read/write surface of the remote document database.
// There are no cross-document guarantees outside RunAtomic, which exists
// solely for privileged provisioning.
type Store interface {
	Get(ctx context.Context, collection, id string) (Doc, error)
	// Query returns documents where field op value holds. An empty field
	// returns every document in the collection.
	Query(ctx context.Context, collection, field string, op Op, value any) ([]Doc, error)
	Add(ctx context.Context, collection string, fields Fields) (string, error)
	Set(ctx context.Context, collection, id string, fields Fields) error
	Update(ctx context.Context, collection, id string, partial Fields) error
	Delete(ctx context.Context, collection, id string) error
	// RunAtomic executes fn against a store view whose writes commit or
	// roll back together.
	RunAtomic(ctx context.Context, fn func(Store) error) error
}

// Sub addresses a child-scoped sub-collection, e.g. a child's absence log.
func Sub(collection, parentID, sub string) string {
	return collection + "/" + parentID + "/" + sub
}

// resolveTimestamps swaps ServerTimestamp sentinels for the current time.
func resolveTimestamps(fields Fields, now time.Time) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now.UTC().Format(time.RFC3339Nano)
			continue
		}
		out[k] = v
	}
	return out
}

// Str reads a string field, returning "" when absent or null.
func (f Fields) Str(key string) string {
	s, _ := f[key].(string)
	return s
}

// Bool reads a bool field, returning false when absent or null.
func (f Fields) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// Strings reads a string-array field.
func (f Fields) Strings(key string) []string {
	raw, ok := f[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StringsValue converts a string slice for storage in a Fields map.
func StringsValue(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func describeOp(op Op) (string, error) {
	switch op {
	case OpEqual, OpArrayContains:
		return string(op), nil
	default:
		return "", fmt.Errorf("docstore: unsupported operator %q", op)
	}
}
