package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/simgraph/internal/connection"
	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/element"
	"github.com/vk/simgraph/internal/iosync"
	"github.com/vk/simgraph/internal/node"
	"github.com/vk/simgraph/internal/nodeid"
	"github.com/vk/simgraph/internal/nodestore"
	"github.com/vk/simgraph/internal/topologystore"
)

// Manager provides a high-level, thread-safe interface to the model by
// composing and orchestrating the lower-level storage backends. It is the
// only writer of both stores. Readers share mu with writers, so a
// multi-step change is never seen half applied.
type Manager struct {
	mu        sync.RWMutex
	topology  topologystore.Store
	nodes     nodestore.Store
	elements  *element.Registry
	syncer    *iosync.Synchronizer
	options   connection.Options
	observers []Observer
}

// Option configures a Manager.
type Option func(*Manager)

// WithElements shares an existing element registry.
func WithElements(r *element.Registry) Option {
	return func(m *Manager) { m.elements = r }
}

// WithConnectionOptions overrides the connection rule options.
func WithConnectionOptions(o connection.Options) Option {
	return func(m *Manager) { m.options = o }
}

// WithObserver registers an observer of committed changes.
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observers = append(m.observers, o) }
}

// New creates a new graph manager over the given stores.
func New(ts topologystore.Store, ns nodestore.Store, opts ...Option) *Manager {
	m := &Manager{
		topology: ts,
		nodes:    ns,
		options:  connection.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.elements == nil {
		m.elements = element.NewRegistry()
	}
	m.syncer = iosync.New(ns, ts)
	return m
}

var _ Graph = (*Manager)(nil)

func (m *Manager) CreateNode(ctx context.Context, spec NodeSpec) (string, error) {
	logger := ctxlog.FromContext(ctx)

	kind, err := node.ParseKind(string(spec.Kind))
	if err != nil {
		return "", err
	}

	id := spec.ID
	if id == "" {
		id = nodeid.New(kind)
	} else if _, err := nodeid.Parse(id); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.existsLocked(ctx, id) {
		return "", fmt.Errorf("%w: '%s'", ErrDuplicateNode, id)
	}

	if _, err := m.nodes.Create(ctx, id, kind, spec.Overrides); err != nil {
		return "", err
	}

	visual := node.DefaultVisual(kind)
	label := spec.Label
	if label == "" {
		label = visual.Label
	}
	err = m.topology.AddNode(ctx, topologystore.VisualNode{
		ID:       id,
		Kind:     kind,
		Position: spec.Position,
		Label:    label,
		Color:    visual.Color,
	})
	if err != nil {
		_ = m.nodes.Remove(ctx, id)
		return "", err
	}

	logger.Debug("Node created.", "id", id, "kind", kind)
	m.notify(func(o Observer) { o.NodeCreated(kind) })
	return id, nil
}

func (m *Manager) DeleteNode(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.nodes.Get(ctx, id)
	if !ok {
		if _, visual := m.topology.Node(ctx, id); !visual {
			return fmt.Errorf("%w: '%s'", ErrNodeNotFound, id)
		}
	}

	if err := m.topology.RemoveNode(ctx, id); err != nil {
		return err
	}
	removed := m.topology.RemoveIncident(ctx, id)
	if err := m.nodes.Remove(ctx, id); err != nil {
		return err
	}

	var neighbours []string
	for _, nb := range iosync.Endpoints(removed...) {
		if nb != id {
			neighbours = append(neighbours, nb)
		}
	}
	if err := m.syncer.Sync(ctx, neighbours...); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Debug("Node deleted.", "id", id, "edges_removed", len(removed))
	total := len(m.topology.Edges(ctx))
	m.notify(func(o Observer) {
		if ok {
			o.NodeDeleted(st.Kind)
		}
		o.EdgesChanged(total)
	})
	return nil
}

func (m *Manager) ProposeEdge(ctx context.Context, spec EdgeSpec) (connection.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.validateLocked(ctx, spec)
	if err != nil {
		return connection.Result{}, err
	}
	m.notify(func(o Observer) { o.EdgeVerdict(res) })
	return res, nil
}

func (m *Manager) Connect(ctx context.Context, spec EdgeSpec) (connection.Result, error) {
	logger := ctxlog.FromContext(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.validateLocked(ctx, spec)
	if err != nil {
		return connection.Result{}, err
	}
	m.notify(func(o Observer) { o.EdgeVerdict(res) })
	if !res.Valid {
		logger.Debug("Connection rejected.", "source", spec.Source, "target", spec.Target, "reason", res.Reason)
		return res, nil
	}

	e := topologystore.Edge{
		ID:           spec.ID,
		Source:       spec.Source,
		Target:       spec.Target,
		SourceHandle: spec.SourceHandle,
		TargetHandle: spec.TargetHandle,
	}
	if e.ID == "" {
		e.ID = nodeid.EdgeID(e.Source, e.SourceHandle, e.Target, e.TargetHandle)
	}

	added, err := m.topology.AddEdge(ctx, e)
	if err != nil {
		return connection.Result{}, err
	}
	if !added {
		return res, nil
	}
	if err := m.syncer.Sync(ctx, e.Source, e.Target); err != nil {
		return connection.Result{}, err
	}

	logger.Debug("Edge connected.", "id", e.ID)
	total := len(m.topology.Edges(ctx))
	m.notify(func(o Observer) { o.EdgesChanged(total) })
	return res, nil
}

func (m *Manager) RemoveEdge(ctx context.Context, edgeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed, ok := m.topology.RemoveEdge(ctx, edgeID)
	if !ok {
		return nil
	}
	if err := m.syncer.Sync(ctx, removed.Source, removed.Target); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Debug("Edge removed.", "id", edgeID)
	total := len(m.topology.Edges(ctx))
	m.notify(func(o Observer) { o.EdgesChanged(total) })
	return nil
}

func (m *Manager) PatchNodeConfig(ctx context.Context, id string, partial map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.nodes.PatchConfig(ctx, id, partial)
}

func (m *Manager) UpdateVisual(ctx context.Context, id string, patch VisualPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.topology.UpdateNode(ctx, id, func(n *topologystore.VisualNode) {
		if patch.Label != nil {
			n.Label = *patch.Label
		}
		if patch.Position != nil {
			n.Position = *patch.Position
		}
	})
}

func (m *Manager) NodeIO(ctx context.Context, id string) (node.IO, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.nodes.Get(ctx, id)
	if !ok {
		return node.IO{}, false
	}
	return st.IO, true
}

func (m *Manager) Node(ctx context.Context, id string) (node.State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.nodes.Get(ctx, id)
}

func (m *Manager) Nodes(ctx context.Context) []node.State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.nodes.All(ctx)
}

func (m *Manager) Edges(ctx context.Context) []topologystore.Edge {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.topology.Edges(ctx)
}

func (m *Manager) VisualNodes(ctx context.Context) []VisualNode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.visualNodesLocked(ctx)
}

func (m *Manager) Snapshot(ctx context.Context) Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Nodes:    m.visualNodesLocked(ctx),
		Edges:    m.topology.Edges(ctx),
		States:   m.nodes.All(ctx),
		Elements: m.elements.All(),
	}
}

func (m *Manager) Elements() *element.Registry {
	return m.elements
}

func (m *Manager) visualNodesLocked(ctx context.Context) []VisualNode {
	placements := m.topology.Nodes(ctx)
	out := make([]VisualNode, 0, len(placements))
	for _, p := range placements {
		io := node.IO{Inputs: []string{}, Outputs: []string{}}
		if st, ok := m.nodes.Get(ctx, p.ID); ok {
			io = st.IO
		}
		out = append(out, VisualNode{
			ID:       p.ID,
			Type:     p.Kind,
			Position: p.Position,
			Data: VisualData{
				Label:    p.Label,
				Color:    p.Color,
				NodeType: p.Kind,
				IO:       io,
			},
		})
	}
	return out
}

// validateLocked resolves both endpoints and runs the connection rules
// against the current edge set.
func (m *Manager) validateLocked(ctx context.Context, spec EdgeSpec) (connection.Result, error) {
	source, ok := m.nodes.Get(ctx, spec.Source)
	if !ok {
		return connection.Result{}, fmt.Errorf("edge source: %w: '%s'", ErrNodeNotFound, spec.Source)
	}
	target, ok := m.nodes.Get(ctx, spec.Target)
	if !ok {
		return connection.Result{}, fmt.Errorf("edge target: %w: '%s'", ErrNodeNotFound, spec.Target)
	}
	return connection.Validate(connection.Context{
		Source:  source,
		Target:  target,
		Edges:   m.topology.Edges(ctx),
		Options: m.options,
	}), nil
}

func (m *Manager) existsLocked(ctx context.Context, id string) bool {
	if _, ok := m.nodes.Get(ctx, id); ok {
		return true
	}
	_, ok := m.topology.Node(ctx, id)
	return ok
}

func (m *Manager) notify(fn func(o Observer)) {
	for _, o := range m.observers {
		fn(o)
	}
}
