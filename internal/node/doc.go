// Package node defines the logical side of a model node: its kind, its
// kind-specific configuration and the io lists derived from the edge set.
//
// # Configuration Sum Type
//
// Config is a closed interface with one struct per kind (GeneratorConfig,
// QueueConfig, SelectorConfig, TransporterConfig, TransformerConfig,
// OutputConfig). The concrete type always matches the node's Kind. Code that
// dispatches on kind uses a type switch with all six cases and a default
// that panics, so adding a kind breaks loudly.
//
// # Defaults and Patching
//
// Defaults returns the starting configuration of each kind. Build and Apply
// merge caller-supplied overrides on top using a shallow merge over the
// JSON form of the config: a key in the patch replaces the whole top-level
// field. The merged value is decoded back into the same concrete type and
// validated, so a patch can never change a node's kind or store malformed
// distribution parameters.
//
// # Derived Fields
//
// A selector's PriorityInputs is not ground truth. NormalizePriorityInputs
// recomputes it from the node's current inputs (drop vanished, keep order,
// append new), and State.Normalized applies it on read.
package node
