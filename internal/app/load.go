package app

import (
	"fmt"

	"github.com/vk/simgraph/internal/config"
	"github.com/vk/simgraph/internal/connection"
	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/element"
	"github.com/vk/simgraph/internal/graph"
	"github.com/vk/simgraph/internal/node"
	"github.com/vk/simgraph/internal/topologystore"
)

// Rejection is an edge from a model file that the connection rules refused.
type Rejection struct {
	Source string
	Target string
	Origin config.Origin
	Result connection.Result
}

// Report summarises a replayed model.
type Report struct {
	Elements int
	Nodes    int
	Edges    int
	Rejected []Rejection
	Findings []graph.Finding
}

// OK reports whether every edge was accepted.
func (r *Report) OK() bool {
	return len(r.Rejected) == 0
}

// LoadModel finds, parses and replays every model file under the configured
// paths.
func (a *App) LoadModel() (*Report, error) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Loading model...", "paths", a.config.ModelPaths)

	model, err := config.LoadAll(a.ctx, a.config.ModelPaths, a.loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	report, err := a.Replay(model)
	if err != nil {
		return nil, err
	}
	logger.Info("Model loaded.", "elements", report.Elements, "nodes", report.Nodes, "edges", report.Edges, "rejected", len(report.Rejected), "findings", len(report.Findings))
	return report, nil
}

// Replay applies a model to the graph the way an editor would: elements
// first, then nodes, then edges. Edges the connection rules refuse are
// reported, not returned as errors; anything else stops the replay.
func (a *App) Replay(m *config.Model) (*Report, error) {
	ctx := a.ctx
	report := &Report{}

	for _, e := range m.Elements {
		s := element.Schema{Name: e.Name}
		for _, attr := range e.Attributes {
			typ, err := element.ParseAttributeType(attr.Type)
			if err != nil {
				return nil, fmt.Errorf("%s: element %q: attribute %q: %w", e.Origin, e.Name, attr.Name, err)
			}
			s.Attributes = append(s.Attributes, element.Attribute{Name: attr.Name, Type: typ})
		}
		if _, err := a.graph.Elements().Add(ctx, s); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Origin, err)
		}
		report.Elements++
	}

	for _, n := range m.Nodes {
		_, err := a.graph.CreateNode(ctx, graph.NodeSpec{
			ID:        n.ID,
			Kind:      node.Kind(n.Kind),
			Position:  topologystore.Position{X: n.X, Y: n.Y},
			Label:     n.Label,
			Overrides: n.Config,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Origin, err)
		}
		report.Nodes++
	}

	for _, e := range m.Edges {
		res, err := a.graph.Connect(ctx, graph.EdgeSpec{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Origin, err)
		}
		if !res.Valid {
			report.Rejected = append(report.Rejected, Rejection{Source: e.Source, Target: e.Target, Origin: e.Origin, Result: res})
			continue
		}
		report.Edges++
	}

	report.Findings = a.graph.Lint(ctx)
	return report, nil
}
