package dag

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type arc struct{ from, to string }

func (a arc) SourceID() string { return a.from }
func (a arc) TargetID() string { return a.to }

func TestFromArcs(t *testing.T) {
	g := FromArcs([]arc{{"a", "b"}, {"b", "a"}, {"c", "a"}, {"a", "b"}})

	assert.Len(t, g.nodes, 3)
	assert.Equal(t, []string{"a", "b", "c"}, g.order)
	assert.Len(t, g.nodes["a"].downstream, 2, "duplicate arcs are kept")
}

func TestDetectCycles(t *testing.T) {
	testCases := []struct {
		name      string
		arcs      []arc
		expectErr bool
		path      []string
	}{
		{name: "empty graph", arcs: nil},
		{name: "chain", arcs: []arc{{"a", "b"}, {"b", "c"}, {"a", "c"}, {"c", "d"}}},
		{name: "direct cycle", arcs: []arc{{"a", "b"}, {"b", "a"}}, expectErr: true, path: []string{"a", "b", "a"}},
		{name: "longer cycle", arcs: []arc{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}}, expectErr: true, path: []string{"a", "b", "c", "d", "a"}},
		{name: "self loop", arcs: []arc{{"a", "a"}}, expectErr: true, path: []string{"a", "a"}},
		{name: "disjoint component", arcs: []arc{{"a", "b"}, {"x", "y"}, {"y", "z"}, {"z", "y"}}, expectErr: true, path: []string{"y", "z", "y"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := FromArcs(tc.arcs).DetectCycles()
			if !tc.expectErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrCycle)
			var cycleErr *CycleError
			require.ErrorAs(t, err, &cycleErr)
			assert.Equal(t, tc.path, cycleErr.Path)
		})
	}
}

func TestWouldCreateCycle(t *testing.T) {
	chain := []arc{{"a", "b"}, {"b", "c"}}

	testCases := []struct {
		name     string
		edges    []arc
		source   string
		target   string
		expected bool
	}{
		{name: "self loop on empty graph", edges: nil, source: "a", target: "a", expected: true},
		{name: "closing a chain", edges: chain, source: "c", target: "a", expected: true},
		{name: "direct back edge", edges: chain, source: "b", target: "a", expected: true},
		{name: "extending a chain", edges: chain, source: "c", target: "d", expected: false},
		{name: "parallel edge", edges: chain, source: "a", target: "c", expected: false},
		{name: "unknown nodes", edges: chain, source: "x", target: "y", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, WouldCreateCycle(tc.edges, tc.source, tc.target))
		})
	}
}

func TestCycleProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a self-loop is always a cycle", prop.ForAll(
		func(id string, n int) bool {
			return WouldCreateCycle(chainOf(n), id, id)
		},
		gen.Identifier(),
		gen.IntRange(0, 20),
	))

	properties.Property("closing a chain is a cycle, extending it is not", prop.ForAll(
		func(n int) bool {
			edges := chainOf(n)
			head, tail := "n0", fmt.Sprintf("n%d", n)
			return WouldCreateCycle(edges, tail, head) && !WouldCreateCycle(edges, tail, "fresh")
		},
		gen.IntRange(1, 30),
	))

	properties.Property("an accepted edge keeps the graph acyclic", prop.ForAll(
		func(pairs []int) bool {
			var edges []arc
			for i := 0; i+1 < len(pairs); i += 2 {
				src, dst := fmt.Sprintf("v%d", pairs[i]), fmt.Sprintf("v%d", pairs[i+1])
				if WouldCreateCycle(edges, src, dst) {
					continue
				}
				edges = append(edges, arc{src, dst})
			}
			return FromArcs(edges).DetectCycles() == nil
		},
		gen.SliceOf(gen.IntRange(0, 8)),
	))

	properties.TestingRun(t)
}

// chainOf returns n0 -> n1 -> ... -> nN.
func chainOf(n int) []arc {
	edges := make([]arc, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, arc{fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", i+1)})
	}
	return edges
}
