// internal/nodeid/parser_test.go
package nodeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgraph/internal/node"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		rawID        string
		expectErr    bool
		expectedAddr *Address
	}{
		{
			name:         "generated id",
			rawID:        "generator-1234",
			expectedAddr: &Address{Prefix: "generator", Suffix: "1234"},
		},
		{
			name:         "suffix keeps later dashes",
			rawID:        "node-6f1c-44aa",
			expectedAddr: &Address{Prefix: "node", Suffix: "6f1c-44aa"},
		},
		{
			name:         "no prefix",
			rawID:        "g1",
			expectedAddr: &Address{Suffix: "g1"},
		},
		{
			name:         "leading dash is not a prefix",
			rawID:        "-x",
			expectedAddr: &Address{Suffix: "-x"},
		},
		{
			name:      "error - empty",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - whitespace",
			rawID:     "a b",
			expectErr: true,
		},
		{
			name:      "error - lone dash",
			rawID:     "-",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.rawID)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedAddr, addr)
			assert.Equal(t, tc.rawID, addr.String())
		})
	}
}

func TestNew(t *testing.T) {
	testCases := []struct {
		kind   node.Kind
		prefix string
	}{
		{kind: node.Queue, prefix: "node-"},
		{kind: node.Generator, prefix: "generator-"},
		{kind: node.Transformer, prefix: "transformer-"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			id := New(tc.kind)
			assert.True(t, strings.HasPrefix(id, tc.prefix))

			addr, err := Parse(id)
			require.NoError(t, err)
			assert.True(t, addr.IsUUID())
		})
	}

	assert.NotEqual(t, New(node.Output), New(node.Output))
}

func TestEdgeID(t *testing.T) {
	assert.Equal(t, "reactflow__edge-g1-q1", EdgeID("g1", "", "q1", ""))
	assert.Equal(t, "reactflow__edge-g1out-q1in", EdgeID("g1", "out", "q1", "in"))
}
