package graph

import (
	"context"
	"errors"

	"github.com/vk/simgraph/internal/connection"
	"github.com/vk/simgraph/internal/element"
	"github.com/vk/simgraph/internal/node"
	"github.com/vk/simgraph/internal/topologystore"
)

var (
	// ErrNodeNotFound is returned when an operation names a node that does
	// not exist and cannot proceed without it.
	ErrNodeNotFound = errors.New("node not found")
	// ErrDuplicateNode is returned when CreateNode is given an id in use.
	ErrDuplicateNode = errors.New("node already exists")
)

// NodeSpec describes a node to create.
type NodeSpec struct {
	// ID is optional; one is generated from the kind when empty.
	ID       string                 `json:"id,omitempty"`
	Kind     node.Kind              `json:"kind"`
	Position topologystore.Position `json:"position"`
	// Label defaults to the kind's palette label.
	Label string `json:"label,omitempty"`
	// Overrides are merged over the kind's default configuration.
	Overrides map[string]any `json:"overrides,omitempty"`
}

// EdgeSpec describes a proposed edge.
type EdgeSpec struct {
	// ID is optional; the editor's convention is used when empty.
	ID           string `json:"id,omitempty"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// VisualPatch changes how a node is drawn. Nil fields are left alone.
type VisualPatch struct {
	Label    *string                 `json:"label,omitempty"`
	Position *topologystore.Position `json:"position,omitempty"`
}

// VisualData is the payload the editor renders inside a node.
type VisualData struct {
	Label    string    `json:"label"`
	Color    string    `json:"color"`
	NodeType node.Kind `json:"nodeType"`
	IO       node.IO   `json:"io"`
}

// VisualNode is the projection of a node the editor draws. IO is read from
// the logical store at projection time.
type VisualNode struct {
	ID       string                 `json:"id"`
	Type     node.Kind              `json:"type"`
	Position topologystore.Position `json:"position"`
	Data     VisualData             `json:"data"`
}

// Finding is a diagnostic about a reference that is stale or meaningless
// against the current element registry.
type Finding struct {
	NodeID  string `json:"nodeId"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Snapshot is a consistent view of the whole model.
type Snapshot struct {
	Nodes    []VisualNode         `json:"nodes"`
	Edges    []topologystore.Edge `json:"edges"`
	States   []node.State         `json:"states"`
	Elements []element.Schema     `json:"elements"`
}

// Observer is notified after the manager commits a change. Implementations
// must not call back into the manager.
type Observer interface {
	NodeCreated(kind node.Kind)
	NodeDeleted(kind node.Kind)
	EdgeVerdict(res connection.Result)
	EdgesChanged(total int)
}

// Graph is the single entry point through which a model is edited.
//
// # Thread-Safety
//
// Implementations MUST be safe for concurrent use. Every mutation is
// applied atomically: validate, commit, then resynchronise io lists, with
// no other mutation interleaved.
//
// # Typical Implementation
//
// See internal/graph.Manager for the reference implementation that composes
// topologystore.Store and nodestore.Store.
type Graph interface {
	// CreateNode adds a node to both stores and returns its id.
	CreateNode(ctx context.Context, spec NodeSpec) (string, error)

	// DeleteNode removes the node, every incident edge and its logical
	// record, then resynchronises the former neighbours.
	DeleteNode(ctx context.Context, id string) error

	// ProposeEdge validates an edge without committing it.
	ProposeEdge(ctx context.Context, spec EdgeSpec) (connection.Result, error)

	// Connect validates an edge and, when it is accepted, commits it and
	// resynchronises both endpoints. A rejection is returned as a Result.
	Connect(ctx context.Context, spec EdgeSpec) (connection.Result, error)

	// RemoveEdge deletes an edge and resynchronises its endpoints. An
	// unknown edge id is a no-op.
	RemoveEdge(ctx context.Context, edgeID string) error

	// PatchNodeConfig shallow-merges partial into the node's configuration.
	// An unknown id is a no-op.
	PatchNodeConfig(ctx context.Context, id string, partial map[string]any) error

	// UpdateVisual relabels or moves a node. An unknown id is a no-op.
	UpdateVisual(ctx context.Context, id string, patch VisualPatch) error

	// NodeIO returns the node's io lists.
	NodeIO(ctx context.Context, id string) (node.IO, bool)

	// Node returns the logical record of a node.
	Node(ctx context.Context, id string) (node.State, bool)

	// Nodes returns every logical record in creation order.
	Nodes(ctx context.Context) []node.State

	// Edges returns every edge in insertion order.
	Edges(ctx context.Context) []topologystore.Edge

	// VisualNodes returns the drawable projection of every node.
	VisualNodes(ctx context.Context) []VisualNode

	// Snapshot returns nodes, edges, states and elements taken together.
	Snapshot(ctx context.Context) Snapshot

	// Elements returns the element registry.
	Elements() *element.Registry

	// Lint reports stale or meaningless references in the model.
	Lint(ctx context.Context) []Finding
}
