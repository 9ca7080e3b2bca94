package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgraph/internal/connection"
	"github.com/vk/simgraph/internal/element"
	"github.com/vk/simgraph/internal/graph"
	"github.com/vk/simgraph/internal/inmemorystore"
	"github.com/vk/simgraph/internal/inmemorytopology"
	"github.com/vk/simgraph/internal/node"
)

func newGraph() *graph.Manager {
	return graph.New(inmemorytopology.New(), inmemorystore.New())
}

// dispatch sends an event as an editor would, with a payload decoded from
// JSON into generic maps.
func dispatch(t *testing.T, g graph.Graph, event string, payload any) (Reply, bool) {
	t.Helper()
	return Dispatch(context.Background(), g, event, payload)
}

func TestDispatch_EditingSession(t *testing.T) {
	g := newGraph()

	reply, changed := dispatch(t, g, EventElementAdd, map[string]any{
		"name":       "Usuarios",
		"attributes": []any{map[string]any{"name": "edad", "type": "numérico"}},
	})
	require.True(t, reply.OK, reply.Error)
	assert.True(t, changed)
	assert.Equal(t, "usuarios", reply.Data.(element.Schema).ID)

	for _, n := range []map[string]any{
		{"id": "g1", "kind": "generator", "overrides": map[string]any{"elementTypeId": "usuarios"}},
		{"id": "q1", "kind": "queue", "position": map[string]any{"x": 10, "y": 5}, "overrides": map[string]any{"elementTypeId": "usuarios"}},
	} {
		reply, changed = dispatch(t, g, EventNodeCreate, n)
		require.True(t, reply.OK, reply.Error)
		assert.True(t, changed)
	}

	reply, changed = dispatch(t, g, EventEdgePropose, map[string]any{"source": "q1", "target": "g1"})
	require.True(t, reply.OK)
	assert.False(t, changed)
	assert.Equal(t, connection.ReasonGeneratorAsTarget, reply.Data.(connection.Result).Reason)

	reply, changed = dispatch(t, g, EventEdgeConnect, map[string]any{"source": "g1", "target": "q1"})
	require.True(t, reply.OK)
	assert.True(t, changed)
	assert.True(t, reply.Data.(connection.Result).Valid)

	reply, _ = dispatch(t, g, EventNodeIO, map[string]any{"id": "q1"})
	require.True(t, reply.OK)
	assert.Equal(t, node.IO{Inputs: []string{"g1"}, Outputs: []string{}}, reply.Data)

	reply, changed = dispatch(t, g, EventNodePatch, map[string]any{"id": "q1", "config": map[string]any{"strategy": "LIFO"}})
	require.True(t, reply.OK, reply.Error)
	assert.True(t, changed)
	assert.Equal(t, node.LIFO, reply.Data.(node.State).Config.(node.QueueConfig).Strategy)

	reply, _ = dispatch(t, g, EventNodeVisual, map[string]any{"id": "q1", "label": "Caja"})
	require.True(t, reply.OK)

	reply, _ = dispatch(t, g, EventGraphSnapshot, nil)
	require.True(t, reply.OK)
	snap := reply.Data.(graph.Snapshot)
	assert.Len(t, snap.Nodes, 2)
	assert.Len(t, snap.Edges, 1)
	assert.Equal(t, "Caja", snap.Nodes[1].Data.Label)

	reply, _ = dispatch(t, g, EventGraphLint, nil)
	require.True(t, reply.OK)
	assert.Empty(t, reply.Data)

	edgeID := snap.Edges[0].ID
	reply, changed = dispatch(t, g, EventEdgeRemove, map[string]any{"id": edgeID})
	require.True(t, reply.OK)
	assert.True(t, changed)
	assert.Empty(t, g.Edges(context.Background()))

	reply, _ = dispatch(t, g, EventNodeDelete, map[string]any{"id": "g1"})
	require.True(t, reply.OK)
	assert.Len(t, g.Nodes(context.Background()), 1)
}

func TestDispatch_RejectedConnectIsNotAChange(t *testing.T) {
	g := newGraph()
	dispatch(t, g, EventNodeCreate, map[string]any{"id": "q1", "kind": "queue"})
	dispatch(t, g, EventNodeCreate, map[string]any{"id": "g1", "kind": "generator"})

	reply, changed := dispatch(t, g, EventEdgeConnect, map[string]any{"source": "q1", "target": "g1"})
	require.True(t, reply.OK)
	assert.False(t, changed)
	assert.False(t, reply.Data.(connection.Result).Valid)
}

func TestDispatch_Elements(t *testing.T) {
	g := newGraph()
	dispatch(t, g, EventElementAdd, map[string]any{"name": "Piezas"})

	reply, _ := dispatch(t, g, EventElementLookup, map[string]any{"id": "piezas"})
	require.True(t, reply.OK)
	assert.Equal(t, "Piezas", reply.Data.(element.Schema).Name)

	reply, _ = dispatch(t, g, EventElementUpdate, map[string]any{"id": "piezas", "name": "Piezas A"})
	require.True(t, reply.OK, reply.Error)
	assert.Equal(t, "piezas", reply.Data.(element.Schema).ID)
	assert.Equal(t, "Piezas A", reply.Data.(element.Schema).Name)

	reply, _ = dispatch(t, g, EventElementRemove, map[string]any{"id": "piezas"})
	require.True(t, reply.OK)

	reply, _ = dispatch(t, g, EventElementLookup, map[string]any{"id": "piezas"})
	assert.False(t, reply.OK)
	assert.Contains(t, reply.Error, "piezas")
}

func TestDispatch_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		event   string
		payload any
		wantErr string
	}{
		{name: "unknown event", event: "node:explode", wantErr: `unknown event "node:explode"`},
		{name: "unencodable payload", event: EventNodeCreate, payload: make(chan int), wantErr: "invalid payload"},
		{name: "wrong payload shape", event: EventNodeDelete, payload: []any{1, 2}, wantErr: "invalid payload"},
		{name: "unknown kind", event: EventNodeCreate, payload: map[string]any{"kind": "oven"}, wantErr: "oven"},
		{name: "io of unknown node", event: EventNodeIO, payload: map[string]any{"id": "ghost"}, wantErr: "node not found"},
		{name: "edge to unknown node", event: EventEdgeConnect, payload: map[string]any{"source": "a", "target": "b"}, wantErr: "node not found"},
		{name: "empty element name", event: EventElementAdd, payload: map[string]any{"name": "  "}, wantErr: element.ErrEmptyName.Error()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reply, changed := dispatch(t, newGraph(), tc.event, tc.payload)
			assert.False(t, reply.OK)
			assert.False(t, changed)
			assert.Nil(t, reply.Data)
			assert.Contains(t, reply.Error, tc.wantErr)
		})
	}
}
