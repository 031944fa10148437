package recordstore

import (
	"encoding/json"
	"fmt"
	"sort"
)

// MemStore is an in-memory store with the same validation rules as FileStore.
type MemStore struct {
	records map[string]map[Namespace]json.RawMessage
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]map[Namespace]json.RawMessage)}
}

// IDs lists ids in sorted order, matching a directory listing of a FileStore.
func (m *MemStore) IDs() ([]string, error) {
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemStore) Read(ns Namespace, id string) (json.RawMessage, bool, error) {
	if err := checkNamespace(ns); err != nil {
		return nil, false, err
	}
	if err := checkID(id); err != nil {
		return nil, false, err
	}
	raw, ok := m.records[id][ns]
	if !ok || isNull(raw) {
		return nil, false, nil
	}
	return raw, true, nil
}

func (m *MemStore) Write(ns Namespace, id string, v any) error {
	if err := checkNamespace(ns); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	raw, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", ns, id, err)
	}
	rec, ok := m.records[id]
	if !ok {
		rec = make(map[Namespace]json.RawMessage)
		m.records[id] = rec
	}
	rec[ns] = raw
	return nil
}

// Put is Write for test setup; it panics on error.
func (m *MemStore) Put(ns Namespace, id string, v any) *MemStore {
	if err := m.Write(ns, id, v); err != nil {
		panic(err)
	}
	return m
}
