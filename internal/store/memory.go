package store

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is the ephemeral storage-port implementation, for
// environments without a database file. All data is lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	tenants map[string]*tenantData
}

type tenantData struct {
	mu   sync.Mutex
	docs map[string][]byte
	cols map[string][][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tenants: make(map[string]*tenantData)}
}

func (m *MemoryStore) tenant(uid string) *tenantData {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[uid]
	if !ok {
		t = &tenantData{
			docs: make(map[string][]byte),
			cols: make(map[string][][]byte),
		}
		m.tenants[uid] = t
	}
	return t
}

func (m *MemoryStore) GetDoc(uid, path string, out interface{}) error {
	t := m.tenant(uid)
	t.mu.Lock()
	raw, ok := t.docs[path]
	t.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (m *MemoryStore) SetDoc(uid, path string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	t := m.tenant(uid)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.docs[path] = raw
	return nil
}

func (m *MemoryStore) UpdateDoc(uid, path string, fn func(raw []byte) (interface{}, error)) error {
	t := m.tenant(uid)
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.docs[path]
	next, err := fn(current)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	t.docs[path] = raw
	return nil
}

func (m *MemoryStore) ListDocs(uid, prefix string) ([][]byte, error) {
	t := m.tenant(uid)
	t.mu.Lock()
	defer t.mu.Unlock()

	paths := make([]string, 0)
	for p := range t.docs {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	out := make([][]byte, 0, len(paths))
	for _, p := range paths {
		raw := make([]byte, len(t.docs[p]))
		copy(raw, t.docs[p])
		out = append(out, raw)
	}
	return out, nil
}

func (m *MemoryStore) AppendDoc(uid, collection string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	t := m.tenant(uid)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cols[collection] = append(t.cols[collection], raw)
	return nil
}

func (m *MemoryStore) ListCollection(uid, collection string) ([][]byte, error) {
	t := m.tenant(uid)
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := t.cols[collection]
	out := make([][]byte, 0, len(rows))
	for _, raw := range rows {
		c := make([]byte, len(raw))
		copy(c, raw)
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
