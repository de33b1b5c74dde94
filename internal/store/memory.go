package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and single-node development
// runs. A single mutex serializes all operations, which trivially
// satisfies the per-document atomicity contract.
type Memory struct {
	mu    sync.Mutex
	specs map[string]Collection
	docs  map[string]map[string]Doc
	order map[string][]string
	index map[string]map[string]map[string]string // collection -> field -> value -> id
	newID func() string
}

// NewMemory creates an empty in-memory store serving the given collections.
func NewMemory(specs ...Collection) *Memory {
	m := &Memory{
		specs: make(map[string]Collection, len(specs)),
		docs:  make(map[string]map[string]Doc, len(specs)),
		order: make(map[string][]string, len(specs)),
		index: make(map[string]map[string]map[string]string, len(specs)),
		newID: uuid.NewString,
	}
	for _, spec := range specs {
		m.specs[spec.Name] = spec
		m.docs[spec.Name] = make(map[string]Doc)
		m.index[spec.Name] = make(map[string]map[string]string)
		for _, field := range spec.Unique {
			m.index[spec.Name][field] = make(map[string]string)
		}
	}
	return m
}

func (m *Memory) Insert(_ context.Context, collection string, doc Doc) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := cloneDoc(doc)
	if err != nil {
		return "", err
	}
	id := docID(stored)
	if id == "" {
		id = m.newID()
		stored[IDField] = id
	}

	spec := m.specs[collection]
	uniq := uniqueValues(spec, stored)
	for field, value := range uniq {
		if owner, taken := m.index[collection][field][value]; taken && owner != id {
			return "", &DuplicateKeyError{Collection: collection, Field: field, Value: value}
		}
	}
	for field, value := range uniq {
		m.index[collection][field][value] = id
	}
	m.docs[collection][id] = stored
	m.order[collection] = append(m.order[collection], id)
	return id, nil
}

func (m *Memory) Get(_ context.Context, collection, id string) (Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDoc(doc)
}

func (m *Memory) Find(_ context.Context, collection string, filter Filter) ([]Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Doc
	for _, id := range m.order[collection] {
		doc, ok := m.docs[collection][id]
		if !ok {
			continue
		}
		hit, err := filter.Matches(doc)
		if err != nil {
			return nil, err
		}
		if !hit {
			continue
		}
		clone, err := cloneDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, clone)
	}
	return out, nil
}

func (m *Memory) UpdateOne(_ context.Context, collection, id string, ops ...Op) (Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(collection, id, ops)
}

func (m *Memory) DeleteOne(_ context.Context, collection, id string) (Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(collection, id)
}

func (m *Memory) DeleteMany(_ context.Context, collection string, filter Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids, err := m.matchLocked(collection, filter)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, id := range ids {
		if _, err := m.deleteLocked(collection, id); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (m *Memory) UpdateMany(_ context.Context, collection string, filter Filter, ops ...Op) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids, err := m.matchLocked(collection, filter)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, id := range ids {
		if _, err := m.updateLocked(collection, id, ops); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (m *Memory) matchLocked(collection string, filter Filter) ([]string, error) {
	var ids []string
	for _, id := range m.order[collection] {
		doc, ok := m.docs[collection][id]
		if !ok {
			continue
		}
		hit, err := filter.Matches(doc)
		if err != nil {
			return nil, err
		}
		if hit {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *Memory) updateLocked(collection, id string, ops []Op) (Doc, error) {
	current, ok := m.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	updated, err := cloneDoc(current)
	if err != nil {
		return nil, err
	}
	if err := applyOps(updated, ops); err != nil {
		return nil, err
	}

	spec := m.specs[collection]
	oldUniq := uniqueValues(spec, current)
	newUniq := uniqueValues(spec, updated)
	for field, value := range newUniq {
		if owner, taken := m.index[collection][field][value]; taken && owner != id {
			return nil, &DuplicateKeyError{Collection: collection, Field: field, Value: value}
		}
	}
	for field, value := range oldUniq {
		if newUniq[field] != value {
			delete(m.index[collection][field], value)
		}
	}
	for field, value := range newUniq {
		m.index[collection][field][value] = id
	}

	m.docs[collection][id] = updated
	return cloneDoc(updated)
}

func (m *Memory) deleteLocked(collection, id string) (Doc, error) {
	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	for field, value := range uniqueValues(m.specs[collection], doc) {
		delete(m.index[collection][field], value)
	}
	delete(m.docs[collection], id)
	order := m.order[collection]
	for i, oid := range order {
		if oid == id {
			m.order[collection] = append(order[:i], order[i+1:]...)
			break
		}
	}
	return doc, nil
}
