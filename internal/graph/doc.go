// Package graph provides the single entry point through which a simulation
// model is edited, combining the visual topology (placements and edges) and
// the logical node records (configuration and io lists).
//
// # Why Graph Package Exists
//
// A model lives in two stores that must never disagree. The editor draws
// from the topology store; the simulator reads the logical store. Letting
// callers write to both directly would make every caller responsible for
// keeping io lists in step with edges. The Manager owns both stores and is
// their only writer, so that responsibility lives in one place.
//
// # Architecture: The Facade Pattern
//
//	┌─────────────────────────────────────┐
//	│           Graph Manager             │
//	│  validate -> commit -> resync io    │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────┐  ┌────────────┐
//	  │  Topology  │  │ Node State │
//	  │   Store    │  │   Store    │
//	  │ (Drawing)  │  │  (Logic)   │
//	  └────────────┘  └────────────┘
//
// **Topology Store** (topologystore.Store) holds placements, labels and
// edges. It never stores io lists; VisualNodes projects them from the
// logical store on read.
//
// **Node Store** (nodestore.Store) holds each node's kind-tagged
// configuration and its io lists, which only the iosync.Synchronizer
// writes.
//
// # Edge Lifecycle
//
//  1. ProposeEdge runs the connection rules and reports a verdict.
//  2. Connect runs the same rules; an accepted edge is committed and both
//     endpoints are resynchronised.
//  3. RemoveEdge and DeleteNode resynchronise every endpoint they touch.
//
// A rejected edge is reported as a connection.Result, never as an error.
// Naming a node that does not exist is an error (ErrNodeNotFound).
//
// # Thread-Safety
//
// Every mutation holds the Manager's lock for its whole
// validate-commit-resync sequence, so observers and readers never see an
// edge without its io entries.
package graph
