// Package dag answers acyclicity questions about a model's edge set.
//
// A simulation topology must be a directed acyclic graph: an element that
// could flow back into a node it already passed through would loop forever.
//
// Two entry points exist:
//   - WouldCreateCycle is the incremental check run for every proposed edge.
//     It is a pure function over a snapshot of the edges and never mutates
//     anything.
//   - Graph.DetectCycles checks a whole graph at once, for models loaded from
//     files where edges were not added one by one. It reports the offending
//     path as a *CycleError.
package dag
