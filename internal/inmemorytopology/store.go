package inmemorytopology

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/vk/simgraph/internal/topologystore"
)

// Store is the in-memory topology store.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]topologystore.VisualNode
	order []string // node ids in insertion order
	edges []topologystore.Edge
}

// New creates an empty store.
func New() topologystore.Store {
	return &Store{
		nodes: make(map[string]topologystore.VisualNode),
	}
}

func (s *Store) AddNode(ctx context.Context, n topologystore.VisualNode) error {
	if n.ID == "" {
		return fmt.Errorf("visual node id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		return nil
	}
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
	return nil
}

func (s *Store) RemoveNode(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[id]; !exists {
		return nil
	}
	delete(s.nodes, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

func (s *Store) UpdateNode(ctx context.Context, id string, fn func(n *topologystore.VisualNode)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.nodes[id]
	if !exists {
		return nil
	}
	fn(&n)
	n.ID = id
	s.nodes[id] = n
	return nil
}

func (s *Store) Node(ctx context.Context, id string) (topologystore.VisualNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	return n, ok
}

func (s *Store) Nodes(ctx context.Context) []topologystore.VisualNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]topologystore.VisualNode, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

func (s *Store) AddEdge(ctx context.Context, e topologystore.Edge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEndpointsLocked(e); err != nil {
		return false, err
	}
	if slices.ContainsFunc(s.edges, func(existing topologystore.Edge) bool { return existing.ID == e.ID }) {
		return false, nil
	}
	s.edges = append(s.edges, e)
	return true, nil
}

func (s *Store) RemoveEdge(ctx context.Context, id string) (topologystore.Edge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.edges, func(e topologystore.Edge) bool { return e.ID == id })
	if i < 0 {
		return topologystore.Edge{}, false
	}
	removed := s.edges[i]
	s.edges = slices.Delete(s.edges, i, i+1)
	return removed, true
}

func (s *Store) Edges(ctx context.Context) []topologystore.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.edges)
}

func (s *Store) ReplaceEdges(ctx context.Context, edges []topologystore.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range edges {
		if err := s.checkEndpointsLocked(e); err != nil {
			return err
		}
	}
	s.edges = slices.Clone(edges)
	return nil
}

func (s *Store) RemoveIncident(ctx context.Context, id string) []topologystore.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []topologystore.Edge
	kept := s.edges[:0:0]
	for _, e := range s.edges {
		if e.Touches(id) {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	return removed
}

func (s *Store) checkEndpointsLocked(e topologystore.Edge) error {
	if _, exists := s.nodes[e.Source]; !exists {
		return fmt.Errorf("edge source node '%s' not found in topology", e.Source)
	}
	if _, exists := s.nodes[e.Target]; !exists {
		return fmt.Errorf("edge target node '%s' not found in topology", e.Target)
	}
	return nil
}
