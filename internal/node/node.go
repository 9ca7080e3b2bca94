package node

import (
	"fmt"
	"slices"
	"strings"
)

// Kind determines a node's configuration shape and the connection rules it
// is subject to.
type Kind string

const (
	Generator   Kind = "generator"
	Queue       Kind = "queue"
	Selector    Kind = "selector"
	Transporter Kind = "transporter"
	Transformer Kind = "transformer"
	Output      Kind = "output"
)

// Kinds lists every node kind in palette order.
var Kinds = []Kind{Generator, Queue, Selector, Transporter, Transformer, Output}

// ParseKind validates a kind name.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(Kinds, k) {
		return k, nil
	}
	return "", fmt.Errorf("unsupported node kind %q", raw)
}

// IO lists the node ids connected to a node, in edge order.
type IO struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// Clone returns a copy whose slices are never nil.
func (io IO) Clone() IO {
	return IO{
		Inputs:  append([]string{}, io.Inputs...),
		Outputs: append([]string{}, io.Outputs...),
	}
}

// State is the logical record of one node: its configuration and the
// projection of the edge set onto it.
type State struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Config Config `json:"config"`
	IO     IO     `json:"io"`
	// Sensors and Failures are reserved for simulation instrumentation and
	// are always empty.
	Sensors  []any `json:"sensors"`
	Failures []any `json:"failures"`
}

// NewState builds the record for a freshly created node.
func NewState(id string, cfg Config) State {
	return State{
		ID:       id,
		Kind:     cfg.Kind(),
		Config:   cfg,
		IO:       IO{Inputs: []string{}, Outputs: []string{}},
		Sensors:  []any{},
		Failures: []any{},
	}
}

// ElementTypeID is shorthand for s.Config.ElementTypeID(), tolerating a
// missing config.
func (s State) ElementTypeID() string {
	if s.Config == nil {
		return ""
	}
	return s.Config.ElementTypeID()
}

// Clone deep-copies s.
func (s State) Clone() State {
	out := s
	out.IO = s.IO.Clone()
	out.Sensors = append([]any{}, s.Sensors...)
	out.Failures = append([]any{}, s.Failures...)
	if s.Config != nil {
		out.Config = CloneConfig(s.Config)
	}
	return out
}

// Normalized returns a copy of s whose derived fields are recomputed from
// its io lists. Today that is the selector's priority inputs.
func (s State) Normalized() State {
	out := s.Clone()
	if sel, ok := out.Config.(SelectorConfig); ok {
		sel.PriorityInputs = NormalizePriorityInputs(sel.PriorityInputs, out.IO.Inputs)
		out.Config = sel
	}
	return out
}

// NormalizePriorityInputs keeps the entries of current that are still
// inputs, in their existing order, then appends inputs not yet listed.
func NormalizePriorityInputs(current, inputs []string) []string {
	out := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	live := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		live[in] = struct{}{}
	}
	for _, id := range current {
		if _, ok := live[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, in := range inputs {
		if _, ok := seen[in]; ok {
			continue
		}
		seen[in] = struct{}{}
		out = append(out, in)
	}
	return out
}
