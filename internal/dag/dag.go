package dag

import "slices"

// FromArcs builds a graph containing every endpoint of arcs and the arcs
// themselves. Self-loops and duplicate arcs are kept so DetectCycles sees
// them.
func FromArcs[A Arc](arcs []A) *Graph {
	g := &Graph{nodes: make(map[string]*node)}
	for _, a := range arcs {
		from := g.addNode(a.SourceID())
		to := g.addNode(a.TargetID())
		from.downstream = append(from.downstream, to)
	}
	return g
}

// addNode returns the node with the given id, creating it if needed.
func (g *Graph) addNode(id string) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{id: id}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError
// describing the first cycle found, visiting nodes in insertion order.
func (g *Graph) DetectCycles() error {
	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and not part of a cycle.
	// temporary: on the current traversal path.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var path []string

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			start := slices.Index(path, n.id)
			cycle := append(slices.Clone(path[start:]), n.id)
			return &CycleError{Path: cycle}
		}

		temporary[n.id] = true
		path = append(path, n.id)

		for _, next := range n.downstream {
			if err := visit(next); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}
