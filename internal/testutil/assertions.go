package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgraph/internal/graph"
)

// AssertLogged checks that the captured log output contains msg.
func AssertLogged(t *testing.T, result *HarnessResult, msg string) {
	t.Helper()
	require.True(t,
		strings.Contains(result.LogOutput, msg),
		"expected %q in log output", msg,
	)
}

// AssertIO checks the io lists the simulator would read for a node.
func AssertIO(t *testing.T, g graph.Graph, id string, inputs, outputs []string) {
	t.Helper()
	io, ok := g.NodeIO(context.Background(), id)
	require.True(t, ok, "node %q not found", id)
	if inputs == nil {
		inputs = []string{}
	}
	if outputs == nil {
		outputs = []string{}
	}
	assert.Equal(t, inputs, io.Inputs, "inputs of %q", id)
	assert.Equal(t, outputs, io.Outputs, "outputs of %q", id)
}
