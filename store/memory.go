package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"

	"golang.org/x/xerrors"

	"questboard-indexer/models"
)

type (
	// Memory is an in-process Store. Documents are kept as JSON so that reads
	// never alias the caller's values, matching the Postgres backend.
	Memory struct {
		mu      sync.RWMutex
		docs    map[models.Kind]map[models.ID][]byte
		cursors map[string]Cursor
	}

	memoryTx struct {
		parent  *Memory
		docs    map[models.Kind]map[models.ID][]byte
		cursors map[string]Cursor
	}
)

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		docs:    make(map[models.Kind]map[models.ID][]byte),
		cursors: make(map[string]Cursor),
	}
}

func (m *Memory) Get(ctx context.Context, kind models.Kind, id models.ID, out any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return decode(m.docs[kind][id], kind, id, out)
}

func (m *Memory) List(ctx context.Context, kind models.Kind, filters []Filter, page Page) ([]json.RawMessage, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	page = page.normalize()

	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]models.ID, 0, len(m.docs[kind]))
	for id, doc := range m.docs[kind] {
		ok, err := matches(doc, filters)
		if err != nil {
			return nil, xerrors.Errorf("failed to match %s %s: %w", kind, id, err)
		}
		if ok {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)

	if page.Offset >= len(ids) {
		return []json.RawMessage{}, nil
	}
	ids = ids[page.Offset:]
	if len(ids) > page.Limit {
		ids = ids[:page.Limit]
	}
	result := make([]json.RawMessage, len(ids))
	for i, id := range ids {
		result[i] = append(json.RawMessage(nil), m.docs[kind][id]...)
	}
	return result, nil
}

func (m *Memory) Cursor(ctx context.Context, name string) (Cursor, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cursors[name]
	return c, ok, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// RunInTx serializes transactions; writes are staged and applied only on success.
func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		parent:  m,
		docs:    make(map[models.Kind]map[models.ID][]byte),
		cursors: make(map[string]Cursor),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for kind, docs := range tx.docs {
		if m.docs[kind] == nil {
			m.docs[kind] = make(map[models.ID][]byte)
		}
		for id, doc := range docs {
			m.docs[kind][id] = doc
		}
	}
	for name, c := range tx.cursors {
		m.cursors[name] = c
	}
	return nil
}

func (m *Memory) Close() {}

func (t *memoryTx) Get(ctx context.Context, kind models.Kind, id models.ID, out any) error {
	if doc, ok := t.docs[kind][id]; ok {
		return decode(doc, kind, id, out)
	}
	return decode(t.parent.docs[kind][id], kind, id, out)
}

func (t *memoryTx) Put(ctx context.Context, entity models.Entity) error {
	doc, err := json.Marshal(entity)
	if err != nil {
		return xerrors.Errorf("failed to encode %s %s: %w", entity.EntityKind(), entity.EntityID(), err)
	}
	kind := entity.EntityKind()
	if t.docs[kind] == nil {
		t.docs[kind] = make(map[models.ID][]byte)
	}
	t.docs[kind][entity.EntityID()] = doc
	return nil
}

func (t *memoryTx) SetCursor(ctx context.Context, name string, cursor Cursor) error {
	t.cursors[name] = cursor
	return nil
}

func decode(doc []byte, kind models.Kind, id models.ID, out any) error {
	if doc == nil {
		return xerrors.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err := json.Unmarshal(doc, out); err != nil {
		return xerrors.Errorf("failed to decode %s %s: %w", kind, id, err)
	}
	return nil
}

// matches compares top-level fields as text, the way Postgres' ->> operator does.
func matches(doc []byte, filters []Filter) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return false, err
	}
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok || v == nil {
			return false, nil
		}
		if asText(v) != f.Value {
			return false, nil
		}
	}
	return true, nil
}

func asText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// sortIDs orders keys by length then text, which is numeric order for
// big-endian encoded ids. Postgres uses the same ordering.
func sortIDs(ids []models.ID) {
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
}
