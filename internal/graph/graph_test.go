package graph

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgraph/internal/connection"
	"github.com/vk/simgraph/internal/element"
	"github.com/vk/simgraph/internal/inmemorystore"
	"github.com/vk/simgraph/internal/inmemorytopology"
	"github.com/vk/simgraph/internal/node"
	"github.com/vk/simgraph/internal/nodestore"
	"github.com/vk/simgraph/internal/topologystore"
)

// createTestGraph creates a graph manager with in-memory stores for testing.
func createTestGraph(opts ...Option) *Manager {
	return New(inmemorytopology.New(), inmemorystore.New(), opts...)
}

// addNode creates a node that handles the given element, or none when
// element is empty.
func addNode(t *testing.T, g *Manager, id string, kind node.Kind, element string) {
	t.Helper()
	var overrides map[string]any
	if element != "" && kind != node.Transformer {
		overrides = map[string]any{"elementTypeId": element}
	}
	_, err := g.CreateNode(context.Background(), NodeSpec{ID: id, Kind: kind, Overrides: overrides})
	require.NoError(t, err)
}

func connect(t *testing.T, g *Manager, src, dst string) connection.Result {
	t.Helper()
	res, err := g.Connect(context.Background(), EdgeSpec{Source: src, Target: dst})
	require.NoError(t, err)
	return res
}

type recordingObserver struct {
	mu       sync.Mutex
	created  []node.Kind
	deleted  []node.Kind
	verdicts []connection.Result
	edges    []int
}

func (o *recordingObserver) NodeCreated(kind node.Kind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created = append(o.created, kind)
}

func (o *recordingObserver) NodeDeleted(kind node.Kind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted = append(o.deleted, kind)
}

func (o *recordingObserver) EdgeVerdict(res connection.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.verdicts = append(o.verdicts, res)
}

func (o *recordingObserver) EdgesChanged(total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.edges = append(o.edges, total)
}

func TestCreateNode(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()

	id, err := g.CreateNode(ctx, NodeSpec{Kind: node.Queue, Position: topologystore.Position{X: 5, Y: 6}})
	require.NoError(t, err)
	assert.Regexp(t, `^node-[0-9a-f-]{36}$`, id)

	st, ok := g.Node(ctx, id)
	require.True(t, ok)
	assert.Equal(t, node.Queue, st.Kind)
	assert.Equal(t, node.IO{Inputs: []string{}, Outputs: []string{}}, st.IO)

	visual := g.VisualNodes(ctx)
	require.Len(t, visual, 1)
	assert.Equal(t, "Queue", visual[0].Data.Label)
	assert.Equal(t, topologystore.Position{X: 5, Y: 6}, visual[0].Position)
	assert.Equal(t, node.Queue, visual[0].Type)
}

func TestCreateNode_Errors(t *testing.T) {
	testCases := []struct {
		name string
		spec NodeSpec
	}{
		{name: "unknown kind", spec: NodeSpec{ID: "x", Kind: "furnace"}},
		{name: "malformed id", spec: NodeSpec{ID: "bad id", Kind: node.Queue}},
		{name: "invalid override", spec: NodeSpec{ID: "q9", Kind: node.Queue, Overrides: map[string]any{"strategy": "SHORTEST"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := createTestGraph()
			_, err := g.CreateNode(context.Background(), tc.spec)
			require.Error(t, err)
			assert.Empty(t, g.Nodes(context.Background()))
			assert.Empty(t, g.VisualNodes(context.Background()))
		})
	}
}

func TestCreateNode_Duplicate(t *testing.T) {
	g := createTestGraph()
	addNode(t, g, "q1", node.Queue, "")

	_, err := g.CreateNode(context.Background(), NodeSpec{ID: "q1", Kind: node.Output})
	require.ErrorIs(t, err, ErrDuplicateNode)

	st, _ := g.Node(context.Background(), "q1")
	assert.Equal(t, node.Queue, st.Kind)
}

func TestConnect_SynchronisesIO(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	addNode(t, g, "g1", node.Generator, "usuarios")
	addNode(t, g, "q1", node.Queue, "usuarios")
	addNode(t, g, "q2", node.Queue, "usuarios")

	assert.True(t, connect(t, g, "g1", "q1").Valid)
	assert.True(t, connect(t, g, "q1", "q2").Valid)

	testCases := []struct {
		id   string
		want node.IO
	}{
		{id: "g1", want: node.IO{Inputs: []string{}, Outputs: []string{"q1"}}},
		{id: "q1", want: node.IO{Inputs: []string{"g1"}, Outputs: []string{"q2"}}},
		{id: "q2", want: node.IO{Inputs: []string{"q1"}, Outputs: []string{}}},
	}
	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			io, ok := g.NodeIO(ctx, tc.id)
			require.True(t, ok)
			assert.Equal(t, tc.want, io)
		})
	}

	// The visual projection reads io from the logical store.
	for _, v := range g.VisualNodes(ctx) {
		io, _ := g.NodeIO(ctx, v.ID)
		assert.Equal(t, io, v.Data.IO)
	}
}

func TestConnect_Rejections(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		dst    string
		reason connection.Reason
		msg    string
	}{
		{name: "generator target", src: "q1", dst: "g2", reason: connection.ReasonGeneratorAsTarget, msg: connection.MsgGeneratorAsTarget},
		{name: "transporter to output", src: "t1", dst: "o1", reason: connection.ReasonTransporterToOutput, msg: connection.MsgTransporterToOutput},
		{name: "element mismatch", src: "g1", dst: "qp", reason: connection.ReasonElementMismatch, msg: connection.MsgElementMismatch},
		{name: "element missing", src: "g1", dst: "qx", reason: connection.ReasonElementMismatch, msg: connection.MsgElementMissing},
		{name: "self loop", src: "q1", dst: "q1", reason: connection.ReasonCycleDetected, msg: connection.MsgCycleDetected},
		{name: "closing a cycle", src: "q2", dst: "q1", reason: connection.ReasonCycleDetected, msg: connection.MsgCycleDetected},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := createTestGraph()
			ctx := context.Background()
			addNode(t, g, "g1", node.Generator, "usuarios")
			addNode(t, g, "g2", node.Generator, "usuarios")
			addNode(t, g, "q1", node.Queue, "usuarios")
			addNode(t, g, "q2", node.Queue, "usuarios")
			addNode(t, g, "qp", node.Queue, "productos")
			addNode(t, g, "qx", node.Queue, "")
			addNode(t, g, "t1", node.Transporter, "usuarios")
			addNode(t, g, "o1", node.Output, "usuarios")
			require.True(t, connect(t, g, "q1", "q2").Valid)
			before := g.Edges(ctx)

			proposed, err := g.ProposeEdge(ctx, EdgeSpec{Source: tc.src, Target: tc.dst})
			require.NoError(t, err)
			res := connect(t, g, tc.src, tc.dst)

			assert.Equal(t, proposed, res)
			assert.False(t, res.Valid)
			assert.Equal(t, tc.reason, res.Reason)
			assert.Equal(t, tc.msg, res.Message)
			assert.Equal(t, before, g.Edges(ctx))
		})
	}
}

func TestConnect_LenientElementMatch(t *testing.T) {
	g := createTestGraph(WithConnectionOptions(connection.Options{StrictElementMatch: false}))
	addNode(t, g, "q1", node.Queue, "usuarios")
	addNode(t, g, "q2", node.Queue, "")
	addNode(t, g, "q3", node.Queue, "productos")

	assert.True(t, connect(t, g, "q1", "q2").Valid)
	assert.False(t, connect(t, g, "q1", "q3").Valid)
}

func TestConnect_DuplicateIsNoOp(t *testing.T) {
	obs := &recordingObserver{}
	g := createTestGraph(WithObserver(obs))
	ctx := context.Background()
	addNode(t, g, "g1", node.Generator, "usuarios")
	addNode(t, g, "q1", node.Queue, "usuarios")

	spec := EdgeSpec{Source: "g1", Target: "q1", SourceHandle: "out", TargetHandle: "in"}
	_, err := g.Connect(ctx, spec)
	require.NoError(t, err)
	_, err = g.Connect(ctx, spec)
	require.NoError(t, err)

	edges := g.Edges(ctx)
	require.Len(t, edges, 1)
	assert.Equal(t, "reactflow__edge-g1out-q1in", edges[0].ID)
	io, _ := g.NodeIO(ctx, "q1")
	assert.Equal(t, []string{"g1"}, io.Inputs)
	assert.Equal(t, []int{1}, obs.edges)
}

func TestUnknownNode(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	addNode(t, g, "q1", node.Queue, "usuarios")

	_, err := g.ProposeEdge(ctx, EdgeSpec{Source: "q1", Target: "ghost"})
	require.ErrorIs(t, err, ErrNodeNotFound)
	assert.Contains(t, err.Error(), "ghost")

	_, err = g.Connect(ctx, EdgeSpec{Source: "ghost", Target: "q1"})
	require.ErrorIs(t, err, ErrNodeNotFound)

	require.ErrorIs(t, g.DeleteNode(ctx, "ghost"), ErrNodeNotFound)

	// Patches, visual updates and edge removals on unknown ids are no-ops.
	require.NoError(t, g.PatchNodeConfig(ctx, "ghost", map[string]any{"name": "x"}))
	label := "x"
	require.NoError(t, g.UpdateVisual(ctx, "ghost", VisualPatch{Label: &label}))
	require.NoError(t, g.RemoveEdge(ctx, "reactflow__edge-ghost-q1"))
	_, ok := g.NodeIO(ctx, "ghost")
	assert.False(t, ok)
}

func TestDeleteNode(t *testing.T) {
	obs := &recordingObserver{}
	g := createTestGraph(WithObserver(obs))
	ctx := context.Background()
	addNode(t, g, "g1", node.Generator, "usuarios")
	addNode(t, g, "q1", node.Queue, "usuarios")
	addNode(t, g, "q2", node.Queue, "usuarios")
	connect(t, g, "g1", "q1")
	connect(t, g, "q1", "q2")
	connect(t, g, "g1", "q2")

	require.NoError(t, g.DeleteNode(ctx, "q1"))

	_, ok := g.Node(ctx, "q1")
	assert.False(t, ok)
	for _, e := range g.Edges(ctx) {
		assert.NotEqual(t, "q1", e.Source)
		assert.NotEqual(t, "q1", e.Target)
	}
	io, _ := g.NodeIO(ctx, "g1")
	assert.Equal(t, []string{"q2"}, io.Outputs)
	io, _ = g.NodeIO(ctx, "q2")
	assert.Equal(t, []string{"g1"}, io.Inputs)
	assert.Len(t, g.VisualNodes(ctx), 2)

	assert.Equal(t, []node.Kind{node.Generator, node.Queue, node.Queue}, obs.created)
	assert.Equal(t, []node.Kind{node.Queue}, obs.deleted)
	assert.Equal(t, []int{1, 2, 3, 1}, obs.edges)
}

// gatedStore holds Remove until release is closed.
type gatedStore struct {
	nodestore.Store
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) Remove(ctx context.Context, id string) error {
	close(s.entered)
	<-s.release
	return s.Store.Remove(ctx, id)
}

func TestDeleteNode_ReadersSeeNoPartialDelete(t *testing.T) {
	ns := &gatedStore{Store: inmemorystore.New(), entered: make(chan struct{}), release: make(chan struct{})}
	g := New(inmemorytopology.New(), ns)
	ctx := context.Background()
	addNode(t, g, "g1", node.Generator, "usuarios")
	addNode(t, g, "q1", node.Queue, "usuarios")
	connect(t, g, "g1", "q1")

	deleted := make(chan error, 1)
	go func() { deleted <- g.DeleteNode(ctx, "q1") }()
	<-ns.entered

	type view struct {
		present bool
		edges   int
		outputs []string
	}
	seen := make(chan view, 1)
	go func() {
		_, present := g.Node(ctx, "q1")
		edges := len(g.Edges(ctx))
		io, _ := g.NodeIO(ctx, "g1")
		seen <- view{present: present, edges: edges, outputs: io.Outputs}
	}()

	select {
	case v := <-seen:
		t.Fatalf("read completed during delete: %+v", v)
	case <-time.After(50 * time.Millisecond):
	}

	close(ns.release)
	require.NoError(t, <-deleted)

	v := <-seen
	assert.False(t, v.present)
	assert.Zero(t, v.edges)
	assert.Empty(t, v.outputs)
}

func TestRemoveEdge(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	addNode(t, g, "g1", node.Generator, "usuarios")
	addNode(t, g, "q1", node.Queue, "usuarios")
	connect(t, g, "g1", "q1")

	require.NoError(t, g.RemoveEdge(ctx, g.Edges(ctx)[0].ID))

	assert.Empty(t, g.Edges(ctx))
	io, _ := g.NodeIO(ctx, "q1")
	assert.Empty(t, io.Inputs)
	io, _ = g.NodeIO(ctx, "g1")
	assert.Empty(t, io.Outputs)
}

func TestSelectorPriorityInputsFollowEdges(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	addNode(t, g, "q1", node.Queue, "usuarios")
	addNode(t, g, "q2", node.Queue, "usuarios")
	addNode(t, g, "s1", node.Selector, "usuarios")
	connect(t, g, "q1", "s1")
	connect(t, g, "q2", "s1")

	require.NoError(t, g.PatchNodeConfig(ctx, "s1", map[string]any{"priorityInputs": []string{"q2", "q1"}}))
	st, _ := g.Node(ctx, "s1")
	assert.Equal(t, []string{"q2", "q1"}, st.Config.(node.SelectorConfig).PriorityInputs)

	require.NoError(t, g.DeleteNode(ctx, "q2"))
	st, _ = g.Node(ctx, "s1")
	assert.Equal(t, []string{"q1"}, st.Config.(node.SelectorConfig).PriorityInputs)
}

func TestPatchNodeConfig_InvalidKeepsPrevious(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	addNode(t, g, "t1", node.Transporter, "usuarios")

	err := g.PatchNodeConfig(ctx, "t1", map[string]any{"capacity": 0})
	require.Error(t, err)

	st, _ := g.Node(ctx, "t1")
	assert.Equal(t, 1, st.Config.(node.TransporterConfig).Capacity)
}

func TestUpdateVisual(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	addNode(t, g, "q1", node.Queue, "")

	label := "Caja 1"
	pos := topologystore.Position{X: 40, Y: -8}
	require.NoError(t, g.UpdateVisual(ctx, "q1", VisualPatch{Label: &label}))
	require.NoError(t, g.UpdateVisual(ctx, "q1", VisualPatch{Position: &pos}))

	v := g.VisualNodes(ctx)[0]
	assert.Equal(t, "Caja 1", v.Data.Label)
	assert.Equal(t, pos, v.Position)
}

func TestSnapshot(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	_, err := g.Elements().Add(ctx, element.Schema{Name: "usuarios"})
	require.NoError(t, err)
	addNode(t, g, "g1", node.Generator, "usuarios")
	addNode(t, g, "o1", node.Output, "usuarios")
	connect(t, g, "g1", "o1")

	snap := g.Snapshot(ctx)
	assert.Len(t, snap.Nodes, 2)
	assert.Len(t, snap.States, 2)
	assert.Len(t, snap.Edges, 1)
	require.Len(t, snap.Elements, 1)
	assert.Equal(t, "usuarios", snap.Elements[0].ID)
}

func TestLint(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	_, err := g.Elements().Add(ctx, element.Schema{
		Name: "usuarios",
		Attributes: []element.Attribute{
			{Name: "edad", Type: element.Numeric},
			{Name: "vip", Type: element.Boolean},
		},
	})
	require.NoError(t, err)

	_, err = g.CreateNode(ctx, NodeSpec{ID: "g1", Kind: node.Generator, Overrides: map[string]any{
		"elementTypeId": "usuarios",
		"attributesProbabilities": map[string]any{
			"vip":    map[string]any{"true": 0.75, "false": 0.5},
			"altura": map[string]any{"alta": 0.5},
		},
	}})
	require.NoError(t, err)
	_, err = g.CreateNode(ctx, NodeSpec{ID: "q1", Kind: node.Queue, Overrides: map[string]any{
		"elementTypeId":      "usuarios",
		"strategy":           "PRIORITY",
		"priorityAttributes": []any{map[string]any{"attribute": "peso", "order": "asc"}},
	}})
	require.NoError(t, err)
	_, err = g.CreateNode(ctx, NodeSpec{ID: "q2", Kind: node.Queue, Overrides: map[string]any{
		"elementTypeId":      "fantasmas",
		"priorityAttributes": []any{map[string]any{"attribute": "edad", "order": "desc"}},
	}})
	require.NoError(t, err)
	_, err = g.CreateNode(ctx, NodeSpec{ID: "x1", Kind: node.Transformer, Overrides: map[string]any{
		"inputRequirements": map[string]any{"usuarios": 1, "piezas": 2},
		"outputMapping":     map[string]any{"kits": "usuarios"},
	}})
	require.NoError(t, err)
	addNode(t, g, "o1", node.Output, "usuarios")

	want := []Finding{
		{NodeID: "g1", Field: "attributesProbabilities", Message: `attribute "altura" is not defined by element "usuarios"`},
		{NodeID: "g1", Field: "attributesProbabilities", Message: `probabilities of "vip" add up to 1.25, more than 1`},
		{NodeID: "q1", Field: "priorityAttributes", Message: `attribute "peso" is not defined by element "usuarios"`},
		{NodeID: "q2", Field: "elementTypeId", Message: `unknown element "fantasmas"`},
		{NodeID: "q2", Field: "priorityAttributes", Message: "priority attributes are ignored unless strategy is PRIORITY"},
		{NodeID: "x1", Field: "inputRequirements", Message: `unknown element "piezas"`},
		{NodeID: "x1", Field: "outputMapping", Message: `unknown element "kits"`},
	}
	assert.Equal(t, want, g.Lint(ctx))
}

func TestLint_GeneratorProbabilitiesWithoutElement(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	_, err := g.CreateNode(ctx, NodeSpec{ID: "g1", Kind: node.Generator, Overrides: map[string]any{
		"attributesProbabilities": map[string]any{"vip": map[string]any{"true": 0.5}},
	}})
	require.NoError(t, err)

	want := []Finding{
		{NodeID: "g1", Field: "attributesProbabilities", Message: "attribute probabilities need an element to be selected"},
	}
	assert.Equal(t, want, g.Lint(ctx))
}

func TestLint_ReportsLoadedCycle(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	addNode(t, g, "a", node.Queue, "")
	addNode(t, g, "b", node.Queue, "")

	// A cycle can only enter the model through the stores, for example when
	// a file is replayed.
	require.NoError(t, g.topology.ReplaceEdges(ctx, []topologystore.Edge{
		{ID: "ab", Source: "a", Target: "b"},
		{ID: "ba", Source: "b", Target: "a"},
	}))

	findings := g.Lint(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, Finding{NodeID: "a", Field: "edges", Message: "cycle detected: a -> b -> a"}, findings[0])
}

func TestConcurrentConnects(t *testing.T) {
	g := createTestGraph()
	ctx := context.Background()
	addNode(t, g, "hub", node.Queue, "usuarios")
	const n = 20
	for i := range n {
		addNode(t, g, fmt.Sprintf("q%d", i), node.Queue, "usuarios")
	}

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Connect(ctx, EdgeSpec{Source: "hub", Target: fmt.Sprintf("q%d", i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	io, _ := g.NodeIO(ctx, "hub")
	assert.Len(t, io.Outputs, n)
	assert.Len(t, g.Edges(ctx), n)
}

func TestDeleteLeavesNoTrace_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("deleting a node removes its record and every incident edge", prop.ForAll(
		func(size int, pairs []int, victim int) bool {
			g := createTestGraph()
			ctx := context.Background()
			ids := make([]string, size)
			for i := range ids {
				ids[i] = fmt.Sprintf("q%d", i)
				if _, err := g.CreateNode(ctx, NodeSpec{ID: ids[i], Kind: node.Queue, Overrides: map[string]any{"elementTypeId": "e"}}); err != nil {
					return false
				}
			}
			for i := 0; i+1 < len(pairs); i += 2 {
				src, dst := ids[pairs[i]%size], ids[pairs[i+1]%size]
				if _, err := g.Connect(ctx, EdgeSpec{Source: src, Target: dst}); err != nil {
					return false
				}
			}

			gone := ids[victim%size]
			if err := g.DeleteNode(ctx, gone); err != nil {
				return false
			}
			if _, ok := g.Node(ctx, gone); ok {
				return false
			}
			for _, e := range g.Edges(ctx) {
				if e.Source == gone || e.Target == gone {
					return false
				}
			}
			for _, st := range g.Nodes(ctx) {
				for _, id := range append(st.IO.Inputs, st.IO.Outputs...) {
					if id == gone {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
