package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and dry runs. Documents are
// kept in creation order per collection.
type Memory struct {
	mu    sync.Mutex
	docs  map[string]map[string]map[string]any
	order map[string][]string

	// FailCreates, when set, makes Create fail for the named collection.
	// Lets tests exercise the skip-and-continue persistence policy.
	FailCreates map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		docs:  map[string]map[string]map[string]any{},
		order: map[string][]string{},
	}
}

func (m *Memory) ListAll(ctx context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.order[collection]
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, Document{ID: id, Fields: cloneFields(m.docs[collection][id])})
	}
	return out, nil
}

func (m *Memory) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.FailCreates[collection]; ok {
		return "", err
	}

	id := uuid.NewString()
	if m.docs[collection] == nil {
		m.docs[collection] = map[string]map[string]any{}
	}
	m.docs[collection][id] = cloneFields(fields)
	m.order[collection] = append(m.order[collection], id)
	return id, nil
}

func (m *Memory) Update(ctx context.Context, docPath string, partial map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	collection, id := SplitPath(docPath)
	doc, ok := m.docs[collection][id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, docPath)
	}
	for k, v := range partial {
		doc[k] = v
	}
	return nil
}

func (m *Memory) Query(ctx context.Context, collection string, field, op string, value any) ([]Document, error) {
	if op != "==" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Document
	for _, id := range m.order[collection] {
		doc := m.docs[collection][id]
		if looseEqual(doc[field], value) {
			out = append(out, Document{ID: id, Fields: cloneFields(doc)})
		}
	}
	return out, nil
}

// Get is a test convenience not part of the Store contract.
func (m *Memory) Get(collection, id string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, false
	}
	return cloneFields(doc), true
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// looseEqual mirrors the hosted store's comparison: numeric values match
// across Go integer and float representations.
func looseEqual(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
