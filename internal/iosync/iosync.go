// Package iosync keeps every node's io lists equal to the projection of the
// edge set onto that node.
package iosync

import (
	"context"
	"fmt"

	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/node"
	"github.com/vk/simgraph/internal/nodestore"
	"github.com/vk/simgraph/internal/topologystore"
)

// Project returns the distinct sources of edges into id and the distinct
// targets of edges out of id, each in edge order.
func Project(edges []topologystore.Edge, id string) node.IO {
	io := node.IO{Inputs: []string{}, Outputs: []string{}}
	seenIn := map[string]bool{}
	seenOut := map[string]bool{}
	for _, e := range edges {
		if e.Target == id && !seenIn[e.Source] {
			seenIn[e.Source] = true
			io.Inputs = append(io.Inputs, e.Source)
		}
		if e.Source == id && !seenOut[e.Target] {
			seenOut[e.Target] = true
			io.Outputs = append(io.Outputs, e.Target)
		}
	}
	return io
}

// Synchronizer writes projected io lists into the node store.
type Synchronizer struct {
	nodes    nodestore.Store
	topology topologystore.Store
}

// New creates a synchronizer over the two stores.
func New(nodes nodestore.Store, topology topologystore.Store) *Synchronizer {
	return &Synchronizer{nodes: nodes, topology: topology}
}

// Sync recomputes the io lists of the given nodes from the current edge
// set. Ids without a logical record are skipped.
func (s *Synchronizer) Sync(ctx context.Context, ids ...string) error {
	edges := s.topology.Edges(ctx)
	for _, id := range ids {
		io := Project(edges, id)
		if err := s.nodes.SetIO(ctx, id, io.Inputs, io.Outputs); err != nil {
			return fmt.Errorf("syncing io of '%s': %w", id, err)
		}
	}
	ctxlog.FromContext(ctx).Debug("IO synchronized.", "nodes", len(ids), "edges", len(edges))
	return nil
}

// SyncAll recomputes the io lists of every node in the node store.
func (s *Synchronizer) SyncAll(ctx context.Context) error {
	states := s.nodes.All(ctx)
	ids := make([]string, 0, len(states))
	for _, st := range states {
		ids = append(ids, st.ID)
	}
	return s.Sync(ctx, ids...)
}

// Endpoints returns the distinct endpoint ids of edges, in edge order.
func Endpoints(edges ...topologystore.Edge) []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range edges {
		for _, id := range []string{e.Source, e.Target} {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
