package iosync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgraph/internal/inmemorystore"
	"github.com/vk/simgraph/internal/inmemorytopology"
	"github.com/vk/simgraph/internal/node"
	"github.com/vk/simgraph/internal/topologystore"
)

func edge(src, dst string) topologystore.Edge {
	return topologystore.Edge{ID: src + "-" + dst, Source: src, Target: dst}
}

func TestProject(t *testing.T) {
	edges := []topologystore.Edge{
		edge("g1", "q1"),
		edge("q1", "q2"),
		{ID: "dup", Source: "g1", Target: "q1", SourceHandle: "b"},
		edge("g2", "q1"),
	}

	io := Project(edges, "q1")
	assert.Equal(t, []string{"g1", "g2"}, io.Inputs)
	assert.Equal(t, []string{"q2"}, io.Outputs)

	empty := Project(edges, "lonely")
	assert.Equal(t, []string{}, empty.Inputs)
	assert.Equal(t, []string{}, empty.Outputs)
}

func TestSync_Chain(t *testing.T) {
	ctx := context.Background()
	nodes := inmemorystore.New()
	topo := inmemorytopology.New()

	for _, n := range []struct {
		id   string
		kind node.Kind
	}{{"g1", node.Generator}, {"q1", node.Queue}, {"q2", node.Queue}} {
		_, err := nodes.Create(ctx, n.id, n.kind, nil)
		require.NoError(t, err)
		require.NoError(t, topo.AddNode(ctx, topologystore.VisualNode{ID: n.id, Kind: n.kind}))
	}
	require.NoError(t, topo.ReplaceEdges(ctx, []topologystore.Edge{edge("g1", "q1"), edge("q1", "q2")}))

	s := New(nodes, topo)
	require.NoError(t, s.SyncAll(ctx))

	q1, _ := nodes.Get(ctx, "q1")
	assert.Equal(t, []string{"g1"}, q1.IO.Inputs)
	assert.Equal(t, []string{"q2"}, q1.IO.Outputs)

	g1, _ := nodes.Get(ctx, "g1")
	assert.Empty(t, g1.IO.Inputs)
	assert.Equal(t, []string{"q1"}, g1.IO.Outputs)

	topo.RemoveEdge(ctx, "q1-q2")
	require.NoError(t, s.Sync(ctx, "q1", "q2", "ghost"))

	q1, _ = nodes.Get(ctx, "q1")
	assert.Empty(t, q1.IO.Outputs)
	q2, _ := nodes.Get(ctx, "q2")
	assert.Empty(t, q2.IO.Inputs)
}

func TestEndpoints(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Endpoints(edge("a", "b"), edge("b", "c")))
	assert.Nil(t, Endpoints())
}
