package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/simgraph/internal/dag"
	"github.com/vk/simgraph/internal/element"
	"github.com/vk/simgraph/internal/node"
)

// probabilityTolerance absorbs rounding when probabilities are summed.
const probabilityTolerance = 1e-9

// Lint reports references that are stale or meaningless against the
// current element registry. Findings are ordered by node creation order.
func (m *Manager) Lint(ctx context.Context) []Finding {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var findings []Finding
	for _, st := range m.nodes.All(ctx) {
		findings = append(findings, m.lintNode(st)...)
	}

	var cycle *dag.CycleError
	if err := dag.FromArcs(m.topology.Edges(ctx)).DetectCycles(); errors.As(err, &cycle) {
		findings = append(findings, Finding{NodeID: cycle.Path[0], Field: "edges", Message: cycle.Error()})
	}
	return findings
}

func (m *Manager) lintNode(st node.State) []Finding {
	var out []Finding
	add := func(field, format string, args ...any) {
		out = append(out, Finding{NodeID: st.ID, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	schema, hasSchema := element.Schema{}, false
	if id := st.ElementTypeID(); id != "" {
		schema, hasSchema = m.elements.Lookup(id)
		if !hasSchema {
			add("elementTypeId", "unknown element %q", id)
		}
	}

	switch cfg := st.Config.(type) {
	case node.GeneratorConfig:
		if st.ElementTypeID() == "" && len(cfg.AttributesProbabilities) > 0 {
			add("attributesProbabilities", "attribute probabilities need an element to be selected")
		}
		for _, attr := range sortedKeys(cfg.AttributesProbabilities) {
			if hasSchema {
				if _, ok := schema.Attribute(attr); !ok {
					add("attributesProbabilities", "attribute %q is not defined by element %q", attr, schema.ID)
					continue
				}
			}
			var sum float64
			for _, p := range cfg.AttributesProbabilities[attr] {
				sum += p
			}
			if sum > 1+probabilityTolerance {
				add("attributesProbabilities", "probabilities of %q add up to %g, more than 1", attr, sum)
			}
		}
	case node.QueueConfig:
		if cfg.Strategy != node.Priority {
			if len(cfg.PriorityAttributes) > 0 {
				add("priorityAttributes", "priority attributes are ignored unless strategy is %s", node.Priority)
			}
			break
		}
		if len(cfg.PriorityAttributes) == 0 {
			add("priorityAttributes", "strategy %s needs at least one priority attribute", node.Priority)
		}
		if cfg.ElementType == "" && len(cfg.PriorityAttributes) > 0 {
			add("priorityAttributes", "priority attributes need an element to be selected")
		}
		if hasSchema {
			for _, pa := range cfg.PriorityAttributes {
				if _, ok := schema.Attribute(pa.Attribute); !ok {
					add("priorityAttributes", "attribute %q is not defined by element %q", pa.Attribute, schema.ID)
				}
			}
		}
	case node.SelectorConfig:
	case node.TransporterConfig:
		if cfg.Mode == node.Continuous && cfg.MaxWait > 0 {
			add("maxWait", "maxWait only applies in %s mode", node.Mobile)
		}
		if cfg.Mode == node.Mobile && cfg.MinInterval > 0 {
			add("minInterval", "minInterval only applies in %s mode", node.Continuous)
		}
	case node.TransformerConfig:
		for _, id := range sortedKeys(cfg.InputRequirements) {
			if _, ok := m.elements.Lookup(id); !ok {
				add("inputRequirements", "unknown element %q", id)
			}
		}
		for _, id := range sortedKeys(cfg.OutputMapping) {
			if _, ok := m.elements.Lookup(id); !ok {
				add("outputMapping", "unknown element %q", id)
			}
		}
	case node.OutputConfig:
	default:
		panic(fmt.Sprintf("graph: unhandled config type %T", st.Config))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
