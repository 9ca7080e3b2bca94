package dag

import (
	"errors"
	"strings"
)

// ErrCycle is wrapped by every error DetectCycles returns.
var ErrCycle = errors.New("cycle detected")

// Arc is anything with a source and a target node id, typically a stored
// edge.
type Arc interface {
	SourceID() string
	TargetID() string
}

// Graph is a collection of nodes and the directed connections between
// them. It is read-only once FromArcs returns.
type Graph struct {
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order keeps node ids in insertion order so traversals are stable.
	order []string
}

// node represents a single vertex in the graph.
type node struct {
	// id is the unique identifier for the node.
	id string
	// downstream holds the nodes this one has an edge to, in edge order.
	downstream []*node
}

// CycleError describes a cycle found in a graph.
type CycleError struct {
	// Path lists the node ids along the cycle; the first id is repeated at
	// the end.
	Path []string
}

func (e *CycleError) Error() string {
	return "cycle detected: " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }
