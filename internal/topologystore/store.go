// Package topologystore defines the interface for storing and retrieving the
// visual structure of a model: where each node is drawn and which edges
// join them.
//
// # Why Topology Store Exists
//
// The topology store implements a critical separation of concerns: it
// isolates the **graph shape** (placements and edges) from the **logical
// state** (configurations and io lists) managed by nodestore.
//
// This separation provides several architectural benefits:
//   - **Clarity:** layout edits never touch configuration records
//   - **No drift:** a visual node stores only placement, label and color; its io is projected from nodestore on read
//   - **Testability:** edge bookkeeping can be verified without any node configuration
//   - **Flexibility:** different storage backends can be swapped (in-memory, persistent)
//
// # Lifecycle and Usage
//
// The topology store lives as long as an editing session. graph.Manager is
// its only writer; it validates every edge with the connection package
// before calling AddEdge, and resynchronises io lists after every change.
package topologystore

import (
	"context"

	"github.com/vk/simgraph/internal/node"
)

// Position is a node's location on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VisualNode is the stored visual record of a node.
type VisualNode struct {
	ID       string    `json:"id"`
	Kind     node.Kind `json:"type"`
	Position Position  `json:"position"`
	Label    string    `json:"label"`
	Color    string    `json:"color"`
}

// Edge is a directed connection between two nodes. Handles are optional
// port names on each end.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// SourceID implements dag.Arc.
func (e Edge) SourceID() string { return e.Source }

// TargetID implements dag.Arc.
func (e Edge) TargetID() string { return e.Target }

// Touches reports whether id is either endpoint of e.
func (e Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// Store is the interface for managing the visual topology of a model.
//
// This interface does NOT manage node configuration or io lists. That
// responsibility belongs to nodestore.Store.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent reads and writes.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the reference in-memory implementation using
// maps and sync.RWMutex for thread-safe concurrent access.
type Store interface {
	// AddNode registers a visual node. Adding an id that already exists is
	// a no-op.
	AddNode(ctx context.Context, n VisualNode) error

	// RemoveNode deletes a visual node. It does not touch edges; callers use
	// RemoveIncident for that. A missing id is a no-op.
	RemoveNode(ctx context.Context, id string) error

	// UpdateNode applies fn to the stored node. The id cannot change. A
	// missing id is a no-op.
	UpdateNode(ctx context.Context, id string, fn func(n *VisualNode)) error

	// Node retrieves a single visual node.
	Node(ctx context.Context, id string) (VisualNode, bool)

	// Nodes returns every visual node in insertion order.
	Nodes(ctx context.Context) []VisualNode

	// AddEdge appends e. Both endpoints must exist. Adding an edge with the
	// same id as an existing one is a no-op and reports added=false.
	AddEdge(ctx context.Context, e Edge) (added bool, err error)

	// RemoveEdge deletes the edge with the given id and returns it.
	RemoveEdge(ctx context.Context, id string) (Edge, bool)

	// Edges returns a snapshot of all edges in insertion order.
	Edges(ctx context.Context) []Edge

	// ReplaceEdges swaps the whole edge list. Every endpoint must exist.
	ReplaceEdges(ctx context.Context, edges []Edge) error

	// RemoveIncident deletes every edge touching id and returns them.
	RemoveIncident(ctx context.Context, id string) []Edge
}
