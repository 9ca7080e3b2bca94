// Package distribution describes and samples the stochastic durations and
// quantities used throughout a simulation model.
//
// # Why Distribution Exists
//
// Node configurations (generator inter-arrival times, transporter travel
// times, transformer processing times) are authored as descriptors rather
// than numbers. A descriptor names a family and carries its parameters; the
// simulator draws a value from it every time an event needs one.
//
// Four families are supported:
//   - Fixed: always returns its value.
//   - Uniform: min + (max-min)·u.
//   - Exponential: -ln(u)/λ.
//   - Normal: Box–Muller transform of two uniform draws.
//
// # Wire Form
//
// Descriptors travel between the editor and the engine as
//
//	{"kind": "fijo", "params": {"value": 1}}
//
// with kind one of fijo, uniforme, exponencial or normal. The English names
// (fixed, uniform, exponential, normal) are accepted on input. Descriptor
// wraps any Distribution with this codec.
//
// # Sampling vs. Validation
//
// Sample never fails: it computes whatever the parameters say, so a reversed
// uniform range simply produces values in the reversed range. Parameter
// constraints are enforced by Validate, which node configuration edits call
// before they are committed.
//
// # Randomness
//
// Sample reads uniform draws from a Source. NewStream returns a named
// rngstream stream (one per node, the way network simulators give every
// device its own stream), NewRand returns a seeded PCG source, and Sequence
// replays fixed values for tests.
package distribution
