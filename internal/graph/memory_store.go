package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/finsignal/riskgraph-backend/internal/domain"
)

type edgeKey struct {
	source  string
	target  string
	relType string
}

// MemoryStore is a mutex-guarded in-process Store. It backs tests and the
// GRAPH_STORE=memory dev mode; the lock makes get-or-create atomic per key
// so concurrent upserts of the same institution never race into duplicates.
type MemoryStore struct {
	mu    sync.Mutex
	nodes map[string]struct{}
	order []string
	edges map[edgeKey]struct{}
	elist []edgeKey
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]struct{}),
		edges: make(map[edgeKey]struct{}),
	}
}

func (m *MemoryStore) UpsertInstitution(_ context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("institution name required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[name]; !ok {
		m.nodes[name] = struct{}{}
		m.order = append(m.order, name)
	}
	return nil
}

func (m *MemoryStore) UpsertRelationship(_ context.Context, source, target, relType string) error {
	if source == "" || target == "" || relType == "" {
		return fmt.Errorf("relationship requires source, target, and type")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[source]; !ok {
		return fmt.Errorf("source institution %q not found", source)
	}
	if _, ok := m.nodes[target]; !ok {
		return fmt.Errorf("target institution %q not found", target)
	}
	key := edgeKey{source: source, target: target, relType: relType}
	if _, ok := m.edges[key]; !ok {
		m.edges[key] = struct{}{}
		m.elist = append(m.elist, key)
	}
	return nil
}

func (m *MemoryStore) Snapshot(_ context.Context) (domain.GraphSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := domain.GraphSnapshot{
		Nodes: make([]domain.GraphNode, 0, len(m.order)),
		Edges: make([]domain.GraphEdge, 0, len(m.elist)),
	}
	for _, name := range m.order {
		snap.Nodes = append(snap.Nodes, domain.GraphNode{ID: name, Label: name})
	}
	for _, key := range m.elist {
		snap.Edges = append(snap.Edges, domain.GraphEdge{From: key.source, To: key.target, Label: key.relType})
	}
	return snap, nil
}

// Counts reports node and edge totals; used by idempotence tests.
func (m *MemoryStore) Counts() (nodes, edges int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes), len(m.edges)
}
