package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and local development.
// Values are normalized through JSON so reads observe the same types the
// Postgres backend would return.
type Memory struct {
	mu    sync.RWMutex
	colls map[string]map[string]Fields
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{colls: make(map[string]map[string]Fields)}
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, ok := m.colls[collection]
	if !ok {
		return Doc{}, ErrNotFound
	}
	fields, ok := coll[id]
	if !ok {
		return Doc{}, ErrNotFound
	}
	return Doc{ID: id, Fields: copyFields(fields)}, nil
}

func (m *Memory) Query(ctx context.Context, collection, field string, op Op, value any) ([]Doc, error) {
	if field != "" {
		if _, err := describeOp(op); err != nil {
			return nil, err
		}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var res []Doc
	for id, fields := range m.colls[collection] {
		if field == "" || matches(fields, field, op, value) {
			res = append(res, Doc{ID: id, Fields: copyFields(fields)})
		}
	}
	return res, nil
}

func (m *Memory) Add(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.NewString()
	if err := m.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Memory) Set(ctx context.Context, collection, id string, fields Fields) error {
	norm, err := normalize(resolveTimestamps(fields, time.Now()))
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.colls[collection]
	if !ok {
		coll = make(map[string]Fields)
		m.colls[collection] = coll
	}
	coll[id] = norm
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, partial Fields) error {
	norm, err := normalize(resolveTimestamps(partial, time.Now()))
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.colls[collection]
	if !ok {
		return ErrNotFound
	}
	fields, ok := coll[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range norm {
		fields[k] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if coll, ok := m.colls[collection]; ok {
		delete(coll, id)
	}
	return nil
}

// RunAtomic applies fn to a staged copy and swaps it in only on success.
func (m *Memory) RunAtomic(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	staged := &Memory{colls: copyCollections(m.colls)}
	m.mu.Unlock()

	if err := fn(staged); err != nil {
		return err
	}

	m.mu.Lock()
	m.colls = staged.colls
	m.mu.Unlock()
	return nil
}

func matches(fields Fields, field string, op Op, value any) bool {
	got, ok := fields[field]
	if !ok {
		return false
	}
	want, err := normalizeValue(value)
	if err != nil {
		return false
	}
	switch op {
	case OpEqual:
		return equalJSON(got, want)
	case OpArrayContains:
		arr, ok := got.([]any)
		if !ok {
			return false
		}
		for _, item := range arr {
			if equalJSON(item, want) {
				return true
			}
		}
	}
	return false
}

func equalJSON(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}

func normalize(fields Fields) (Fields, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("docstore: unsupported field value: %w", err)
	}
	var out Fields
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Fields{}
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func copyFields(fields Fields) Fields {
	out, err := normalize(fields)
	if err != nil {
		return Fields{}
	}
	return out
}

func copyCollections(colls map[string]map[string]Fields) map[string]map[string]Fields {
	out := make(map[string]map[string]Fields, len(colls))
	for path, coll := range colls {
		cp := make(map[string]Fields, len(coll))
		for id, fields := range coll {
			cp[id] = copyFields(fields)
		}
		out[path] = cp
	}
	return out
}
