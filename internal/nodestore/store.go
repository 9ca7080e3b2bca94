// Package nodestore defines the interface for storing and retrieving the
// logical state of model nodes: their kind-specific configuration and the
// io lists derived from the edge set.
//
// # Why Node Store Exists
//
// The node store implements the separation between the **logical model**
// (what each node does, which elements it handles, who feeds it) and the
// **visual graph** (where each node is drawn and how edges are routed)
// managed by topologystore.
//
// This separation provides several architectural benefits:
//   - **Single source of truth:** io lists live here only; the visual side projects them on read
//   - **Typed configs:** every record holds a node.Config whose concrete type matches its kind
//   - **Testability:** configuration rules can be checked without any layout data
//   - **Flexibility:** different storage backends can be swapped (in-memory, persistent)
//
// # Lifecycle and Usage
//
// A record is:
//  1. **Created** when a node is added, populated with per-kind defaults and caller overrides
//  2. **Patched** as the user edits the node's configuration
//  3. **Resynced** by iosync after every edge mutation (SetIO)
//  4. **Removed** when the node is deleted
//
// All writes go through graph.Manager, which serialises them. Reads may
// happen from any goroutine.
package nodestore

import (
	"context"

	"github.com/vk/simgraph/internal/node"
)

// Store is the interface for managing the logical state of nodes.
//
// This interface does NOT manage placement or edges. That responsibility
// belongs to topologystore.Store.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent reads and writes.
//
// # Typical Implementation
//
// See internal/inmemorystore for the reference in-memory implementation.
type Store interface {
	// Create builds the record for a new node of the given kind: per-kind
	// defaults overlaid with initial, empty io, sensors and failures.
	// Creating an id that already exists replaces its record.
	//
	// Returns an error when kind is unknown or initial does not decode into
	// a valid configuration.
	Create(ctx context.Context, id string, kind node.Kind, initial map[string]any) (node.State, error)

	// PatchConfig shallow-merges partial into the node's configuration.
	//
	// A missing id is a silent no-op. When the merged configuration is
	// invalid the record is left unchanged and the error is returned.
	PatchConfig(ctx context.Context, id string, partial map[string]any) error

	// Remove deletes the record. A missing id is a no-op.
	Remove(ctx context.Context, id string) error

	// SetIO replaces the io lists of the node. A missing id is a no-op.
	SetIO(ctx context.Context, id string, inputs, outputs []string) error

	// Get returns a deep copy of the record with derived fields (selector
	// priority inputs) recomputed.
	Get(ctx context.Context, id string) (node.State, bool)

	// All returns every record, in creation order, as Get would.
	All(ctx context.Context) []node.State
}
